// file: internal/database/store.go
// version: 1.2.0
// guid: 9a1c4e7b-2d5f-4b8a-9c30-6e1f8d2b5a74

package database

import (
	"time"

	"github.com/jackykwe/poweramp-helper/internal/models"
)

// Settings keys. The two directory locations and the last-analysis timestamp
// are the analysis engine's configuration; the sort keys persist UI/CLI
// preferences between invocations.
const (
	SettingMusicDir           = "music_dir"
	SettingPlaylistDir        = "playlist_dir"
	SettingLastAnalysisMillis = "last_analysis_millis"

	SettingLangSortOption       = "lang_sort_option"
	SettingLangSortPendingFirst = "lang_sort_pending_first"
	SettingLangSortDescending   = "lang_sort_descending"
	SettingRatingSortOption     = "rating_sort_option"
	SettingRatingSortDescending = "rating_sort_descending"
)

// ObservedFolder is one folder seen during a directory scan.
type ObservedFolder struct {
	ID          string
	DisplayName string
}

// ChangeListener is invoked after every committed catalog mutation with the
// logical table that changed ("folders", "files" or "settings").
type ChangeListener func(table string)

// Store is the persistent catalog behind the analysis engine and the stats
// views. Every mutating method is individually atomic; there is no
// multi-method transaction (re-running analysis converges instead).
type Store interface {
	// Folder catalog.

	// ReconcileFolders deletes every stored folder absent from observed
	// (cascading file deletion), inserts new ones with no completion state,
	// and refreshes display names of survivors.
	ReconcileFolders(observed []ObservedFolder) error
	// ListFolders returns all folders ordered by display name.
	ListFolders() ([]models.MusicFolder, error)
	// MarkDone records a user done-mark and clears any auto-reset. Unknown
	// ids are a silent no-op.
	MarkDone(id string, at time.Time) error
	// MarkNotDone clears both completion timestamps.
	MarkNotDone(id string) error
	// AutoReset stamps reset_at on the given folders. Callers pass only
	// folders currently in the Done state.
	AutoReset(ids []string, at time.Time) error

	// File catalog.

	// ResetFiles clears every file row, ahead of a reload from the
	// authoritative "All" playlist.
	ResetFiles() error
	// EnsureFilesPresent inserts rows that do not yet exist; rows already
	// present (by composite key) keep their first-seen rating and flags.
	EnsureFilesPresent(files []models.MusicFile) error
	// SetLanguageFlag sets one language tag to true. A missing file row is a
	// silent no-op: language playlists may reference files outside the
	// canonical "All" set.
	SetLanguageFlag(folderID, fileName string, lang models.Language) error
	// UntaggedFiles lists files in a folder with no language tag, by name.
	UntaggedFiles(folderID string) ([]models.MusicFile, error)
	// UnratedFiles lists files in a folder with rating 0, by name.
	UnratedFiles(folderID string) ([]models.MusicFile, error)

	// Aggregate views, ordered by display name; sorting beyond that is the
	// stats package's job.
	FolderLangStats() ([]models.FolderLangStats, error)
	FolderRatingStats() ([]models.FolderRatingStats, error)

	// Settings.
	GetSetting(key string) (*string, error)
	GetSettings(keys ...string) (map[string]string, error)
	SetSetting(key, value string) error
	SetSettings(pairs map[string]string) error

	// Subscribe registers a listener for committed mutations. Listeners are
	// called synchronously; keep them cheap.
	Subscribe(fn ChangeListener)

	Close() error
}
