// file: internal/analysis/engine.go
// version: 1.5.0
// guid: 9e2c6a4f-7b1d-4c8e-a593-2f6d0b8e4a17

// Package analysis reconciles the on-disk music directory and playlist files
// with the persistent catalog. A run scans the music directory, auto-resets
// stale done marks, reloads ratings from the canonical "All" playlist, applies
// language tags from the six language playlists, and writes the derived
// "[Auto]" playlists back.
//
// Steps commit individually; a mid-run failure leaves earlier steps applied
// and the last-analysis timestamp unset, so a retried run is distinguishable
// from a completed one and re-running converges.
package analysis

import (
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	ulid "github.com/oklog/ulid/v2"

	"github.com/jackykwe/poweramp-helper/internal/database"
	"github.com/jackykwe/poweramp-helper/internal/fsys"
	"github.com/jackykwe/poweramp-helper/internal/metrics"
	"github.com/jackykwe/poweramp-helper/internal/models"
	"github.com/jackykwe/poweramp-helper/internal/playlist"
)

// ProgressFunc receives a completion fraction in [0, 1] and a short label.
// Reports are for display only; they carry no semantic effect.
type ProgressFunc func(fraction float64, label string)

// Analyzer runs the synchronization procedure. One Analyzer admits one run at
// a time; a second Analyze call while one is active fails with
// ErrAnalysisInProgress rather than queueing.
type Analyzer struct {
	store database.Store
	fs    fsys.FS

	inProgress atomic.Bool
	now        func() time.Time
}

// New creates an Analyzer over the given catalog store and filesystem.
func New(store database.Store, fs fsys.FS) *Analyzer {
	return &Analyzer{store: store, fs: fs, now: time.Now}
}

// InProgress reports whether a run is currently active.
func (a *Analyzer) InProgress() bool {
	return a.inProgress.Load()
}

// Analyze performs one full synchronization run. It either runs to completion
// or aborts on the first failure; there is no mid-run cancellation and no
// automatic retry. The in-progress guard is cleared on every exit path.
func (a *Analyzer) Analyze(progress ProgressFunc) (err error) {
	if progress == nil {
		progress = func(float64, string) {}
	}
	if !a.inProgress.CompareAndSwap(false, true) {
		return ErrAnalysisInProgress
	}
	defer a.inProgress.Store(false)

	runID := ulid.Make().String()
	start := a.now()
	metrics.IncAnalysisStarted()
	defer func() {
		metrics.ObserveAnalysisDuration(time.Since(start))
		if err != nil {
			metrics.IncAnalysisFailed()
			log.Printf("analysis %s: aborted: %v", runID, err)
		} else {
			metrics.IncAnalysisCompleted()
			log.Printf("analysis %s: completed in %s", runID, time.Since(start).Round(time.Millisecond))
		}
	}()

	progress(0, "Starting...")
	settings, err := a.store.GetSettings(database.SettingMusicDir, database.SettingPlaylistDir)
	if err != nil {
		return err
	}
	musicDir, haveMusic := settings[database.SettingMusicDir]
	playlistDir, havePlaylist := settings[database.SettingPlaylistDir]
	if !haveMusic || !havePlaylist {
		return ErrConfigMissing
	}

	progress(0.1, "Opening music directory...")
	children, err := a.fs.ListChildren(musicDir)
	if err != nil {
		return fmt.Errorf("failed to list music directory: %w", err)
	}
	var observed []database.ObservedFolder
	for _, e := range children {
		if !e.IsDir || strings.HasPrefix(e.Name, ".") {
			continue
		}
		observed = append(observed, database.ObservedFolder{ID: e.Handle, DisplayName: e.Name})
	}

	progress(0.2, "Syncing music directory with catalog...")
	if err := a.store.ReconcileFolders(observed); err != nil {
		return err
	}
	metrics.SetFolders(len(observed))

	progress(0.3, "Unticking folders with more recent changes...")
	if err := a.autoResetStale(runID, start); err != nil {
		return err
	}

	folderIDs := make(map[string]string, len(observed))
	for _, f := range observed {
		folderIDs[f.DisplayName] = f.ID
	}

	progress(0.4, "Reading All playlist...")
	allRecords, err := a.reloadRatings(playlistDir, folderIDs)
	if err != nil {
		return err
	}

	tagged := make(map[playlist.LinePair]struct{})
	for i, lp := range playlist.LanguageNames {
		progress(0.5+0.05*float64(i), fmt.Sprintf("Reading %s...", lp.FileName))
		if err := a.applyLanguagePlaylist(playlistDir, lp.FileName, lp.Language, folderIDs, tagged); err != nil {
			return err
		}
	}

	progress(0.8, "Writing "+playlist.TaggedSongsName+"...")
	taggedPairs := make([]playlist.LinePair, 0, len(tagged))
	for pair := range tagged {
		taggedPairs = append(taggedPairs, pair)
	}
	sortPairs(taggedPairs)
	if err := a.writePlaylist(playlistDir, playlist.TaggedSongsName, taggedPairs); err != nil {
		return err
	}

	for stars := 0; stars <= 5; stars++ {
		name := playlist.RatedName(stars)
		progress(0.85+0.02*float64(stars), fmt.Sprintf("Writing %s...", name))
		var pairs []playlist.LinePair
		for _, rec := range allRecords {
			if rec.Rating == stars {
				pairs = append(pairs, rec.Raw)
			}
		}
		sortPairs(pairs)
		if err := a.writePlaylist(playlistDir, name, pairs); err != nil {
			return err
		}
	}

	progress(0.97, "Saving last analysis time...")
	if err := a.store.SetSetting(database.SettingLastAnalysisMillis,
		strconv.FormatInt(start.UnixMilli(), 10)); err != nil {
		return err
	}

	progress(1, "Finishing up...")
	return nil
}

// autoResetStale invalidates the done mark of every folder in the Done state
// whose on-disk modification time is strictly newer than its done mark.
// Folders whose modification time cannot be read are left alone.
func (a *Analyzer) autoResetStale(runID string, at time.Time) error {
	folders, err := a.store.ListFolders()
	if err != nil {
		return err
	}
	var resetIDs []string
	for _, f := range folders {
		if f.State() != models.Done {
			continue
		}
		modTime, err := a.fs.ModifiedTime(f.ID)
		if err != nil {
			continue
		}
		if modTime.After(*f.DoneAt) {
			resetIDs = append(resetIDs, f.ID)
		}
	}
	if err := a.store.AutoReset(resetIDs, at); err != nil {
		return err
	}
	metrics.SetAutoResets(len(resetIDs))
	if len(resetIDs) > 0 {
		log.Printf("analysis %s: auto-reset %d folder(s)", runID, len(resetIDs))
	}
	return nil
}

// reloadRatings resets the file catalog and repopulates it from the canonical
// "All" playlist. Records referencing folders outside the music directory are
// skipped: the playlist may mention material that was moved away.
func (a *Analyzer) reloadRatings(playlistDir string, folderIDs map[string]string) ([]playlist.Record, error) {
	text, err := a.readPlaylist(playlistDir, playlist.AllName)
	if err != nil {
		return nil, err
	}
	records, err := playlist.ParseWithRating(playlist.AllName, text)
	if err != nil {
		return nil, err
	}

	if err := a.store.ResetFiles(); err != nil {
		return nil, err
	}
	files := make([]models.MusicFile, 0, len(records))
	for _, rec := range records {
		folderID, ok := folderIDs[rec.FolderName]
		if !ok {
			continue
		}
		files = append(files, models.MusicFile{
			FolderID: folderID,
			FileName: rec.FileName,
			Rating:   rec.Rating,
		})
	}
	if err := a.store.EnsureFilesPresent(files); err != nil {
		return nil, err
	}
	return records, nil
}

// applyLanguagePlaylist sets one language flag for every record of the named
// playlist and pools the raw line pairs for the derived tagged-songs output.
// Every record is pooled: the tagged-songs playlist is a pure projection of
// the playlist text, like the rated outputs, so records for folders no longer
// on disk stay in it. Only the catalog flag update needs a known folder.
func (a *Analyzer) applyLanguagePlaylist(playlistDir, name string, lang models.Language,
	folderIDs map[string]string, tagged map[playlist.LinePair]struct{}) error {
	text, err := a.readPlaylist(playlistDir, name)
	if err != nil {
		return err
	}
	records, err := playlist.ParseLanguageList(name, text)
	if err != nil {
		return err
	}
	for _, rec := range records {
		tagged[rec.Raw] = struct{}{}
		folderID, ok := folderIDs[rec.FolderName]
		if !ok {
			continue
		}
		if err := a.store.SetLanguageFlag(folderID, rec.FileName, lang); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) readPlaylist(playlistDir, name string) (string, error) {
	handle, ok, err := a.fs.FindChildByName(playlistDir, name)
	if err != nil {
		return "", fmt.Errorf("failed to locate playlist %q: %w", name, err)
	}
	if !ok {
		return "", &PlaylistNotFoundError{Name: name}
	}
	r, err := a.fs.OpenRead(handle)
	if err != nil {
		return "", fmt.Errorf("failed to open playlist %q: %w", name, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read playlist %q: %w", name, err)
	}
	return string(data), nil
}

func (a *Analyzer) writePlaylist(playlistDir, name string, pairs []playlist.LinePair) error {
	w, err := a.fs.OpenWrite(a.fs.ChildHandle(playlistDir, name))
	if err != nil {
		return &WriteFailureError{Name: name, Err: err}
	}
	if _, err := io.WriteString(w, playlist.Render(pairs)); err != nil {
		w.Close()
		return &WriteFailureError{Name: name, Err: err}
	}
	if err := w.Close(); err != nil {
		return &WriteFailureError{Name: name, Err: err}
	}
	return nil
}

// sortPairs orders records by file name (the final path segment), then by the
// full path line for determinism between identically named files.
func sortPairs(pairs []playlist.LinePair) {
	sort.Slice(pairs, func(i, j int) bool {
		a, b := pairs[i].FileName(), pairs[j].FileName()
		if a != b {
			return a < b
		}
		return pairs[i].Path < pairs[j].Path
	})
}
