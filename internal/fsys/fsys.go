// file: internal/fsys/fsys.go
// version: 1.2.0
// guid: 1f9a5c3e-6b8d-4f2a-8e47-9c0b3d6f1a52

// Package fsys is the narrow filesystem surface the analysis engine depends
// on. Handles are opaque strings; the OS implementation uses absolute paths,
// which double as the stable folder identifiers in the catalog.
package fsys

import (
	"io"
	"os"
	"path/filepath"
	"time"
)

// Entry is one child of a listed directory.
type Entry struct {
	Handle string
	Name   string
	IsDir  bool
}

// FS abstracts directory listing and file access for the engine. All calls
// block; run them off any latency-sensitive path.
type FS interface {
	// ListChildren returns the immediate children of a directory.
	ListChildren(dirHandle string) ([]Entry, error)
	// OpenRead opens an existing file for reading.
	OpenRead(handle string) (io.ReadCloser, error)
	// OpenWrite opens a file for writing, creating it if absent and
	// truncating it otherwise.
	OpenWrite(handle string) (io.WriteCloser, error)
	// ModifiedTime returns the entry's last-modification time.
	ModifiedTime(handle string) (time.Time, error)
	// FindChildByName resolves a direct child by exact name. The boolean is
	// false when no such child exists.
	FindChildByName(dirHandle, name string) (string, bool, error)
	// ChildHandle derives the handle a direct child would have, whether or
	// not it exists yet. Used to create new files under a directory.
	ChildHandle(dirHandle, name string) string
}

type osFS struct{}

// NewOS returns the operating-system-backed FS.
func NewOS() FS {
	return osFS{}
}

func (osFS) ListChildren(dirHandle string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dirHandle)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(dirEntries))
	for _, e := range dirEntries {
		entries = append(entries, Entry{
			Handle: filepath.Join(dirHandle, e.Name()),
			Name:   e.Name(),
			IsDir:  e.IsDir(),
		})
	}
	return entries, nil
}

func (osFS) OpenRead(handle string) (io.ReadCloser, error) {
	return os.Open(handle)
}

func (osFS) OpenWrite(handle string) (io.WriteCloser, error) {
	return os.OpenFile(handle, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
}

func (osFS) ModifiedTime(handle string) (time.Time, error) {
	info, err := os.Stat(handle)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (osFS) FindChildByName(dirHandle, name string) (string, bool, error) {
	handle := filepath.Join(dirHandle, name)
	if _, err := os.Stat(handle); err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return handle, true, nil
}

func (osFS) ChildHandle(dirHandle, name string) string {
	return filepath.Join(dirHandle, name)
}
