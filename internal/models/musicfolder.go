// file: internal/models/musicfolder.go
// version: 1.1.0
// guid: 4f2a9c1e-8b3d-4e6f-a017-5c9d2e8b4a61

package models

import "time"

// MusicFolder is one catalogued album/collection folder.
//
// ID is a stable identifier derived from the folder's storage location (the
// absolute path for the OS filesystem backend), not from its display name, so
// completion state survives display-name churn on backends with stable handles.
type MusicFolder struct {
	ID          string
	DisplayName string
	DoneAt      *time.Time // nil if the review task is not marked done
	ResetAt     *time.Time // nil if never auto-reset; set implies DoneAt set
}

// FolderState is the derived review-completion state of a folder.
type FolderState int

const (
	// NotDone: no done mark (DoneAt nil).
	NotDone FolderState = iota
	// Done: marked done and not invalidated since (DoneAt set, ResetAt nil).
	Done
	// DoneAutoReset: marked done, then the folder changed on disk after the
	// done mark (both timestamps set). Only a new user done-mark leaves this
	// state.
	DoneAutoReset
)

// State derives the folder's completion state from its timestamps.
func (f *MusicFolder) State() FolderState {
	switch {
	case f.DoneAt == nil:
		return NotDone
	case f.ResetAt == nil:
		return Done
	default:
		return DoneAutoReset
	}
}

func (s FolderState) String() string {
	switch s {
	case NotDone:
		return "not done"
	case Done:
		return "done"
	case DoneAutoReset:
		return "done (reset)"
	default:
		return "unknown"
	}
}

// PendingRank orders states for the pending-first sort: folders needing
// attention first.
func (s FolderState) PendingRank() int {
	switch s {
	case DoneAutoReset:
		return 1
	case NotDone:
		return 2
	default:
		return 3
	}
}

// FolderLangStats is a folder row joined with its per-language aggregate
// counts. MinusCount is the number of files carrying no language tag at all.
type FolderLangStats struct {
	MusicFolder
	FileCount  int
	MinusCount int
	ENCount    int
	CNCount    int
	JPCount    int
	KRCount    int
	OCount     int
	ChCount    int
}

// FolderRatingStats is a folder row joined with its per-rating-bucket counts.
type FolderRatingStats struct {
	MusicFolder
	FileCount    int
	RatingCounts [6]int // index = star rating 0..5
}

// RatedCount returns the number of files carrying a non-zero rating.
func (s *FolderRatingStats) RatedCount() int {
	return s.FileCount - s.RatingCounts[0]
}

// RatingProgressPercent is the integer percentage of files rated so far.
// A folder with no files reports 0, not a division error.
func (s *FolderRatingStats) RatingProgressPercent() int {
	if s.FileCount == 0 {
		return 0
	}
	return 100 * s.RatedCount() / s.FileCount
}
