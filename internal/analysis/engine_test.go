// file: internal/analysis/engine_test.go
// version: 1.2.0
// guid: 0b6d3f8a-5c2e-4a9d-b471-3e8f6c0a2d59

package analysis

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackykwe/poweramp-helper/internal/database"
	"github.com/jackykwe/poweramp-helper/internal/fsys"
	"github.com/jackykwe/poweramp-helper/internal/models"
	"github.com/jackykwe/poweramp-helper/internal/playlist"
)

// memFS is an in-memory fsys.FS for engine tests. Handles are plain
// slash-joined paths.
type memFS struct {
	dirs       map[string][]fsys.Entry
	files      map[string]string
	modTimes   map[string]time.Time
	written    map[string]string
	failWrites bool
}

func newMemFS() *memFS {
	return &memFS{
		dirs:     make(map[string][]fsys.Entry),
		files:    make(map[string]string),
		modTimes: make(map[string]time.Time),
		written:  make(map[string]string),
	}
}

func (m *memFS) addDir(parent, name string) string {
	handle := parent + "/" + name
	m.dirs[parent] = append(m.dirs[parent], fsys.Entry{Handle: handle, Name: name, IsDir: true})
	return handle
}

func (m *memFS) addFile(parent, name, content string) string {
	handle := parent + "/" + name
	m.dirs[parent] = append(m.dirs[parent], fsys.Entry{Handle: handle, Name: name})
	m.files[handle] = content
	return handle
}

func (m *memFS) ListChildren(dirHandle string) ([]fsys.Entry, error) {
	entries, ok := m.dirs[dirHandle]
	if !ok {
		return nil, fmt.Errorf("no such directory %q", dirHandle)
	}
	return entries, nil
}

func (m *memFS) OpenRead(handle string) (io.ReadCloser, error) {
	content, ok := m.files[handle]
	if !ok {
		return nil, fmt.Errorf("no such file %q", handle)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

type memWriter struct {
	fs     *memFS
	handle string
	buf    bytes.Buffer
}

func (w *memWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *memWriter) Close() error {
	w.fs.written[w.handle] = w.buf.String()
	return nil
}

func (m *memFS) OpenWrite(handle string) (io.WriteCloser, error) {
	if m.failWrites {
		return nil, fmt.Errorf("read-only filesystem")
	}
	return &memWriter{fs: m, handle: handle}, nil
}

func (m *memFS) ModifiedTime(handle string) (time.Time, error) {
	return m.modTimes[handle], nil
}

func (m *memFS) FindChildByName(dirHandle, name string) (string, bool, error) {
	for _, e := range m.dirs[dirHandle] {
		if e.Name == name {
			return e.Handle, true, nil
		}
	}
	return "", false, nil
}

func (m *memFS) ChildHandle(dirHandle, name string) string {
	return dirHandle + "/" + name
}

const (
	musicDir    = "/music"
	playlistDir = "/playlists"
)

func record(rating int, folder, file string) string {
	return fmt.Sprintf("#EXT-X-RATING:%d\nMusic/%s/%s\n", rating, folder, file)
}

func langRecord(folder, file string) string {
	return fmt.Sprintf("#EXTINF:100,x\nMusic/%s/%s\n", folder, file)
}

// newFixture builds a catalog plus a music/playlist tree: two albums, a
// hidden directory and a loose file (both ignored), a canonical All playlist
// and the six language playlists (ENG and Choral non-empty).
func newFixture(t *testing.T) (*database.SQLiteStore, *memFS, *Analyzer) {
	t.Helper()

	store, err := database.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.SetSettings(map[string]string{
		database.SettingMusicDir:    musicDir,
		database.SettingPlaylistDir: playlistDir,
	}))

	fs := newMemFS()
	fs.dirs[musicDir] = nil
	fs.addDir(musicDir, "Album A")
	fs.addDir(musicDir, "Album B")
	fs.addDir(musicDir, ".thumbnails")
	fs.addFile(musicDir, "notes.txt", "not a folder")

	all := playlist.Header + "\n" +
		record(5, "Album A", "t1.mp3") +
		record(0, "Album A", "t2.mp3") +
		record(3, "Album B", "t3.mp3") +
		record(1, "Gone", "t9.mp3")
	fs.addFile(playlistDir, playlist.AllName, all)

	for _, lp := range playlist.LanguageNames {
		content := playlist.Header + "\n"
		switch lp.Language {
		case models.LangEN:
			content += langRecord("Album A", "t1.mp3")
		case models.LangCh:
			content += langRecord("Album B", "t3.mp3")
		}
		fs.addFile(playlistDir, lp.FileName, content)
	}

	return store, fs, New(store, fs)
}

func TestAnalyzeFullRun(t *testing.T) {
	store, fs, analyzer := newFixture(t)

	var fractions []float64
	var labels []string
	err := analyzer.Analyze(func(fraction float64, label string) {
		fractions = append(fractions, fraction)
		labels = append(labels, label)
	})
	require.NoError(t, err)

	// Progress is monotone from 0 to 1, and every step reports, the
	// final timestamp save included.
	require.NotEmpty(t, fractions)
	assert.Equal(t, 0.0, fractions[0])
	assert.Equal(t, 1.0, fractions[len(fractions)-1])
	for i := 1; i < len(fractions); i++ {
		assert.GreaterOrEqual(t, fractions[i], fractions[i-1])
	}
	assert.Contains(t, labels, "Saving last analysis time...")

	// Hidden dirs and loose files are not catalogued.
	folders, err := store.ListFolders()
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "Album A", folders[0].DisplayName)
	assert.Equal(t, "Album B", folders[1].DisplayName)

	// Ratings loaded from All; the record for the vanished folder is skipped.
	ratingStats, err := store.FolderRatingStats()
	require.NoError(t, err)
	require.Len(t, ratingStats, 2)
	assert.Equal(t, 2, ratingStats[0].FileCount)
	assert.Equal(t, 1, ratingStats[0].RatingCounts[5])
	assert.Equal(t, 1, ratingStats[0].RatingCounts[0])
	assert.Equal(t, 1, ratingStats[1].RatingCounts[3])

	// Language flags applied.
	langStats, err := store.FolderLangStats()
	require.NoError(t, err)
	assert.Equal(t, 1, langStats[0].ENCount)
	assert.Equal(t, 1, langStats[0].MinusCount)
	assert.Equal(t, 1, langStats[1].ChCount)

	// Tagged-songs union, sorted by file name.
	taggedOut := fs.written[playlistDir+"/"+playlist.TaggedSongsName]
	wantTagged := playlist.Header + "\n" +
		langRecord("Album A", "t1.mp3") +
		langRecord("Album B", "t3.mp3")
	assert.Equal(t, wantTagged, taggedOut)

	// One rated playlist per star bucket, zero stars included. Records keep
	// their raw marker lines, vanished folders included.
	assert.Equal(t, playlist.Header+"\n"+record(0, "Album A", "t2.mp3"),
		fs.written[playlistDir+"/"+playlist.RatedName(0)])
	assert.Equal(t, playlist.Header+"\n"+record(1, "Gone", "t9.mp3"),
		fs.written[playlistDir+"/"+playlist.RatedName(1)])
	assert.Equal(t, playlist.Header+"\n", fs.written[playlistDir+"/"+playlist.RatedName(2)])
	assert.Equal(t, playlist.Header+"\n"+record(3, "Album B", "t3.mp3"),
		fs.written[playlistDir+"/"+playlist.RatedName(3)])
	assert.Equal(t, playlist.Header+"\n"+record(5, "Album A", "t1.mp3"),
		fs.written[playlistDir+"/"+playlist.RatedName(5)])

	// Completion is recorded.
	millis, err := store.GetSetting(database.SettingLastAnalysisMillis)
	require.NoError(t, err)
	require.NotNil(t, millis)

	// A second run converges to the same outputs.
	require.NoError(t, analyzer.Analyze(nil))
	assert.Equal(t, wantTagged, fs.written[playlistDir+"/"+playlist.TaggedSongsName])
	assert.False(t, analyzer.InProgress())
}

// The tagged-songs playlist is a pure projection of the language playlist
// text. A record whose folder is gone from the music directory still lands in
// the output, exactly like the rated projections; only the catalog flag update
// is skipped.
func TestAnalyzeTaggedSongsKeepVanishedFolders(t *testing.T) {
	store, fs, analyzer := newFixture(t)

	handle := playlistDir + "/Songs - ENG.m3u8"
	fs.files[handle] += langRecord("Vanished", "ghost.mp3")

	require.NoError(t, analyzer.Analyze(nil))

	taggedOut := fs.written[playlistDir+"/"+playlist.TaggedSongsName]
	assert.Contains(t, taggedOut, "Music/Vanished/ghost.mp3")
	wantTagged := playlist.Header + "\n" +
		langRecord("Vanished", "ghost.mp3") +
		langRecord("Album A", "t1.mp3") +
		langRecord("Album B", "t3.mp3")
	assert.Equal(t, wantTagged, taggedOut)

	// The vanished folder never reaches the catalog.
	langStats, err := store.FolderLangStats()
	require.NoError(t, err)
	require.Len(t, langStats, 2)
}

func TestAnalyzeAutoResetsStaleDoneFolders(t *testing.T) {
	store, fs, analyzer := newFixture(t)
	require.NoError(t, analyzer.Analyze(nil))

	t0 := time.Now().Add(-time.Hour)
	require.NoError(t, store.MarkDone(musicDir+"/Album A", t0))
	require.NoError(t, store.MarkDone(musicDir+"/Album B", t0))

	// A changed after its done mark; B before it.
	fs.modTimes[musicDir+"/Album A"] = t0.Add(10 * time.Minute)
	fs.modTimes[musicDir+"/Album B"] = t0.Add(-10 * time.Minute)

	require.NoError(t, analyzer.Analyze(nil))

	folders, err := store.ListFolders()
	require.NoError(t, err)
	assert.Equal(t, models.DoneAutoReset, folders[0].State())
	assert.Equal(t, models.Done, folders[1].State())

	// The reset sticks until a new user done-mark, even if later runs see no
	// further changes.
	require.NoError(t, analyzer.Analyze(nil))
	folders, err = store.ListFolders()
	require.NoError(t, err)
	assert.Equal(t, models.DoneAutoReset, folders[0].State())

	require.NoError(t, store.MarkDone(musicDir+"/Album A", time.Now()))
	require.NoError(t, analyzer.Analyze(nil))
	folders, err = store.ListFolders()
	require.NoError(t, err)
	assert.Equal(t, models.Done, folders[0].State())
}

func TestAnalyzeConfigMissing(t *testing.T) {
	store, err := database.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	analyzer := New(store, newMemFS())
	err = analyzer.Analyze(nil)
	assert.ErrorIs(t, err, ErrConfigMissing)
	assert.False(t, analyzer.InProgress())
}

func TestAnalyzeMissingPlaylist(t *testing.T) {
	_, fs, analyzer := newFixture(t)

	// Drop All.m3u8 from the playlist directory.
	entries := fs.dirs[playlistDir][:0]
	for _, e := range fs.dirs[playlistDir] {
		if e.Name != playlist.AllName {
			entries = append(entries, e)
		}
	}
	fs.dirs[playlistDir] = entries

	err := analyzer.Analyze(nil)
	var notFound *PlaylistNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, playlist.AllName, notFound.Name)
}

func TestAnalyzeMalformedPlaylist(t *testing.T) {
	_, fs, analyzer := newFixture(t)
	fs.files[playlistDir+"/"+playlist.AllName] = playlist.Header + "\n#EXT-X-RATING:2\n"

	err := analyzer.Analyze(nil)
	var malformed *playlist.MalformedPlaylistError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, playlist.AllName, malformed.Name)
	assert.False(t, analyzer.InProgress())
}

func TestAnalyzeWriteFailure(t *testing.T) {
	_, fs, analyzer := newFixture(t)
	fs.failWrites = true

	err := analyzer.Analyze(nil)
	var writeErr *WriteFailureError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, playlist.TaggedSongsName, writeErr.Name)
	assert.False(t, analyzer.InProgress())
}

// A second Analyze while one is active is rejected, not queued. The re-entrant
// call from inside the progress callback is the overlap.
func TestAnalyzeRejectsConcurrentRun(t *testing.T) {
	_, _, analyzer := newFixture(t)

	var overlapErr error
	called := false
	err := analyzer.Analyze(func(fraction float64, label string) {
		if !called {
			called = true
			overlapErr = analyzer.Analyze(nil)
		}
	})
	require.NoError(t, err)
	assert.ErrorIs(t, overlapErr, ErrAnalysisInProgress)
	assert.False(t, analyzer.InProgress())
}
