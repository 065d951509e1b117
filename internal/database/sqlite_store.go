// file: internal/database/sqlite_store.go
// version: 1.4.0
// guid: 2e8f6b3a-7c1d-4d9e-8a52-4b0e9c6d3f87

package database

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jackykwe/poweramp-helper/internal/models"
)

// SQLiteStore implements the Store interface using SQLite3.
type SQLiteStore struct {
	db *sql.DB

	mu        sync.RWMutex
	listeners []ChangeListener
}

// NewSQLiteStore opens (creating if needed) the catalog database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// createTables creates all required tables. Timestamps are stored as unix
// milliseconds; NULL means unset.
func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS music_folders (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		done_millis INTEGER,
		reset_millis INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_music_folders_display_name ON music_folders(display_name);

	CREATE TABLE IF NOT EXISTS music_files (
		folder_id TEXT NOT NULL,
		file_name TEXT NOT NULL,
		rating INTEGER NOT NULL DEFAULT 0,
		lang_en BOOLEAN NOT NULL DEFAULT 0,
		lang_cn BOOLEAN NOT NULL DEFAULT 0,
		lang_jp BOOLEAN NOT NULL DEFAULT 0,
		lang_kr BOOLEAN NOT NULL DEFAULT 0,
		lang_o BOOLEAN NOT NULL DEFAULT 0,
		lang_ch BOOLEAN NOT NULL DEFAULT 0,
		PRIMARY KEY (folder_id, file_name),
		FOREIGN KEY (folder_id) REFERENCES music_folders(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_music_files_folder ON music_files(folder_id);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Subscribe registers a change listener.
func (s *SQLiteStore) Subscribe(fn ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *SQLiteStore) notify(table string) {
	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(table)
	}
}

func millisPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	m := t.UnixMilli()
	return &m
}

func timeFromMillis(m sql.NullInt64) *time.Time {
	if !m.Valid {
		return nil
	}
	t := time.UnixMilli(m.Int64)
	return &t
}

// Folder catalog operations

func (s *SQLiteStore) ReconcileFolders(observed []ObservedFolder) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if len(observed) == 0 {
		if _, err := tx.Exec("DELETE FROM music_folders"); err != nil {
			return err
		}
	} else {
		placeholders := strings.Repeat("?,", len(observed)-1) + "?"
		args := make([]interface{}, len(observed))
		for i, f := range observed {
			args[i] = f.ID
		}
		query := fmt.Sprintf("DELETE FROM music_folders WHERE id NOT IN (%s)", placeholders)
		if _, err := tx.Exec(query, args...); err != nil {
			return err
		}
	}

	for _, f := range observed {
		// Insert-if-absent, then refresh the display name of survivors so a
		// renamed folder is not shown under its stale name.
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO music_folders (id, display_name) VALUES (?, ?)",
			f.ID, f.DisplayName); err != nil {
			return err
		}
		if _, err := tx.Exec(
			"UPDATE music_folders SET display_name = ? WHERE id = ?",
			f.DisplayName, f.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.notify("folders")
	return nil
}

func (s *SQLiteStore) ListFolders() ([]models.MusicFolder, error) {
	rows, err := s.db.Query(
		"SELECT id, display_name, done_millis, reset_millis FROM music_folders ORDER BY display_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []models.MusicFolder
	for rows.Next() {
		var f models.MusicFolder
		var done, reset sql.NullInt64
		if err := rows.Scan(&f.ID, &f.DisplayName, &done, &reset); err != nil {
			return nil, err
		}
		f.DoneAt = timeFromMillis(done)
		f.ResetAt = timeFromMillis(reset)
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func (s *SQLiteStore) MarkDone(id string, at time.Time) error {
	_, err := s.db.Exec(
		"UPDATE music_folders SET done_millis = ?, reset_millis = NULL WHERE id = ?",
		at.UnixMilli(), id)
	if err != nil {
		return err
	}
	s.notify("folders")
	return nil
}

func (s *SQLiteStore) MarkNotDone(id string) error {
	_, err := s.db.Exec(
		"UPDATE music_folders SET done_millis = NULL, reset_millis = NULL WHERE id = ?", id)
	if err != nil {
		return err
	}
	s.notify("folders")
	return nil
}

func (s *SQLiteStore) AutoReset(ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, at.UnixMilli())
	for _, id := range ids {
		args = append(args, id)
	}
	query := fmt.Sprintf("UPDATE music_folders SET reset_millis = ? WHERE id IN (%s)", placeholders)
	if _, err := s.db.Exec(query, args...); err != nil {
		return err
	}
	s.notify("folders")
	return nil
}

// File catalog operations

func (s *SQLiteStore) ResetFiles() error {
	if _, err := s.db.Exec("DELETE FROM music_files"); err != nil {
		return err
	}
	s.notify("files")
	return nil
}

func (s *SQLiteStore) EnsureFilesPresent(files []models.MusicFile) error {
	if len(files) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO music_files
		(folder_id, file_name, rating, lang_en, lang_cn, lang_jp, lang_kr, lang_o, lang_ch)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range files {
		if _, err := stmt.Exec(f.FolderID, f.FileName, f.Rating,
			f.LangEN, f.LangCN, f.LangJP, f.LangKR, f.LangO, f.LangCh); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.notify("files")
	return nil
}

// langColumns maps a language tag to its column. Column names come from this
// fixed table, never from caller input.
var langColumns = map[models.Language]string{
	models.LangEN: "lang_en",
	models.LangCN: "lang_cn",
	models.LangJP: "lang_jp",
	models.LangKR: "lang_kr",
	models.LangO:  "lang_o",
	models.LangCh: "lang_ch",
}

func (s *SQLiteStore) SetLanguageFlag(folderID, fileName string, lang models.Language) error {
	column, ok := langColumns[lang]
	if !ok {
		return fmt.Errorf("unknown language tag %d", lang)
	}
	query := fmt.Sprintf("UPDATE music_files SET %s = 1 WHERE folder_id = ? AND file_name = ?", column)
	if _, err := s.db.Exec(query, folderID, fileName); err != nil {
		return err
	}
	s.notify("files")
	return nil
}

const fileSelectColumns = `
	folder_id, file_name, rating, lang_en, lang_cn, lang_jp, lang_kr, lang_o, lang_ch
`

func scanFile(rows *sql.Rows, f *models.MusicFile) error {
	return rows.Scan(&f.FolderID, &f.FileName, &f.Rating,
		&f.LangEN, &f.LangCN, &f.LangJP, &f.LangKR, &f.LangO, &f.LangCh)
}

func (s *SQLiteStore) queryFiles(query string, args ...interface{}) ([]models.MusicFile, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []models.MusicFile
	for rows.Next() {
		var f models.MusicFile
		if err := scanFile(rows, &f); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (s *SQLiteStore) UntaggedFiles(folderID string) ([]models.MusicFile, error) {
	query := fmt.Sprintf(`SELECT %s FROM music_files
		WHERE folder_id = ? AND lang_en = 0 AND lang_cn = 0 AND lang_jp = 0
		  AND lang_kr = 0 AND lang_o = 0 AND lang_ch = 0
		ORDER BY file_name`, fileSelectColumns)
	return s.queryFiles(query, folderID)
}

func (s *SQLiteStore) UnratedFiles(folderID string) ([]models.MusicFile, error) {
	query := fmt.Sprintf(`SELECT %s FROM music_files
		WHERE folder_id = ? AND rating = 0 ORDER BY file_name`, fileSelectColumns)
	return s.queryFiles(query, folderID)
}

// Aggregate views

func (s *SQLiteStore) FolderLangStats() ([]models.FolderLangStats, error) {
	query := `
	SELECT f.id, f.display_name, f.done_millis, f.reset_millis,
		COUNT(mf.file_name),
		COALESCE(SUM(CASE WHEN mf.lang_en = 0 AND mf.lang_cn = 0 AND mf.lang_jp = 0
			AND mf.lang_kr = 0 AND mf.lang_o = 0 AND mf.lang_ch = 0 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(mf.lang_en), 0),
		COALESCE(SUM(mf.lang_cn), 0),
		COALESCE(SUM(mf.lang_jp), 0),
		COALESCE(SUM(mf.lang_kr), 0),
		COALESCE(SUM(mf.lang_o), 0),
		COALESCE(SUM(mf.lang_ch), 0)
	FROM music_folders f
	LEFT JOIN music_files mf ON mf.folder_id = f.id
	GROUP BY f.id
	ORDER BY f.display_name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.FolderLangStats
	for rows.Next() {
		var st models.FolderLangStats
		var done, reset sql.NullInt64
		if err := rows.Scan(&st.ID, &st.DisplayName, &done, &reset,
			&st.FileCount, &st.MinusCount,
			&st.ENCount, &st.CNCount, &st.JPCount, &st.KRCount, &st.OCount, &st.ChCount); err != nil {
			return nil, err
		}
		st.DoneAt = timeFromMillis(done)
		st.ResetAt = timeFromMillis(reset)
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func (s *SQLiteStore) FolderRatingStats() ([]models.FolderRatingStats, error) {
	query := `
	SELECT f.id, f.display_name, f.done_millis, f.reset_millis,
		COUNT(mf.file_name),
		COALESCE(SUM(CASE WHEN mf.rating = 0 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN mf.rating = 1 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN mf.rating = 2 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN mf.rating = 3 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN mf.rating = 4 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN mf.rating = 5 THEN 1 ELSE 0 END), 0)
	FROM music_folders f
	LEFT JOIN music_files mf ON mf.folder_id = f.id
	GROUP BY f.id
	ORDER BY f.display_name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.FolderRatingStats
	for rows.Next() {
		var st models.FolderRatingStats
		var done, reset sql.NullInt64
		if err := rows.Scan(&st.ID, &st.DisplayName, &done, &reset, &st.FileCount,
			&st.RatingCounts[0], &st.RatingCounts[1], &st.RatingCounts[2],
			&st.RatingCounts[3], &st.RatingCounts[4], &st.RatingCounts[5]); err != nil {
			return nil, err
		}
		st.DoneAt = timeFromMillis(done)
		st.ResetAt = timeFromMillis(reset)
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// Settings operations

func (s *SQLiteStore) GetSetting(key string) (*string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (s *SQLiteStore) GetSettings(keys ...string) (map[string]string, error) {
	result := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return result, nil
	}
	placeholders := strings.Repeat("?,", len(keys)-1) + "?"
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	query := fmt.Sprintf("SELECT key, value FROM settings WHERE key IN (%s)", placeholders)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		result[k] = v
	}
	return result, rows.Err()
}

func (s *SQLiteStore) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return err
	}
	s.notify("settings")
	return nil
}

func (s *SQLiteStore) SetSettings(pairs map[string]string) error {
	if len(pairs) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for k, v := range pairs {
		if _, err := tx.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, k, v); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.notify("settings")
	return nil
}
