// file: internal/analysis/errors.go
// version: 1.0.0
// guid: 7a3e9c1f-5d8b-4e2a-96c0-4f7b1d9e3a85

package analysis

import (
	"errors"
	"fmt"
)

// ErrConfigMissing means a required directory location has not been
// configured yet. Callers surface it as a prompt, not a crash.
var ErrConfigMissing = errors.New("music directory or playlist directory not configured")

// ErrAnalysisInProgress means a second Analyze call arrived while a run was
// still active. Runs are never queued.
var ErrAnalysisInProgress = errors.New("an analysis run is already in progress")

// PlaylistNotFoundError means an expected playlist file is absent from the
// playlist directory.
type PlaylistNotFoundError struct {
	Name string
}

func (e *PlaylistNotFoundError) Error() string {
	return fmt.Sprintf("playlist %q not found in playlist directory", e.Name)
}

// WriteFailureError means a derived playlist could not be created or written.
// Remaining write steps are skipped once one fails.
type WriteFailureError struct {
	Name string
	Err  error
}

func (e *WriteFailureError) Error() string {
	return fmt.Sprintf("failed to write playlist %q: %v", e.Name, e.Err)
}

func (e *WriteFailureError) Unwrap() error {
	return e.Err
}
