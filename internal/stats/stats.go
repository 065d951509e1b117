// file: internal/stats/stats.go
// version: 1.2.0
// guid: 3d7f1b5e-8a2c-4d6b-90e4-7f3c5a8d1e29

// Package stats orders the per-folder aggregate views served by the catalog.
// The store returns rows ordered by display name; this package applies the
// user-selected sort key, direction, and the optional pending-first grouping.
package stats

import (
	"fmt"
	"sort"

	"github.com/jackykwe/poweramp-helper/internal/models"
)

// LanguageSortKey selects the column the language view is ordered by. The
// display strings are persisted as settings, so they are part of the stored
// contract.
type LanguageSortKey string

const (
	LangSortName  LanguageSortKey = "Name"
	LangSortEN    LanguageSortKey = "EN Count"
	LangSortCN    LanguageSortKey = "CN Count"
	LangSortJP    LanguageSortKey = "JP Count"
	LangSortKR    LanguageSortKey = "KR Count"
	LangSortO     LanguageSortKey = "O Count"
	LangSortCh    LanguageSortKey = "Ch Count"
	LangSortMinus LanguageSortKey = "- Count"
	LangSortSigma LanguageSortKey = "Σ Count"
)

// LanguageSortKeys lists the valid keys in display order.
var LanguageSortKeys = []LanguageSortKey{
	LangSortName, LangSortEN, LangSortCN, LangSortJP, LangSortKR,
	LangSortO, LangSortCh, LangSortMinus, LangSortSigma,
}

// ParseLanguageSortKey validates a persisted key string.
func ParseLanguageSortKey(s string) (LanguageSortKey, error) {
	for _, key := range LanguageSortKeys {
		if s == string(key) {
			return key, nil
		}
	}
	return "", fmt.Errorf("unknown language sort key %q", s)
}

func langSortValue(st *models.FolderLangStats, key LanguageSortKey) int {
	switch key {
	case LangSortEN:
		return st.ENCount
	case LangSortCN:
		return st.CNCount
	case LangSortJP:
		return st.JPCount
	case LangSortKR:
		return st.KRCount
	case LangSortO:
		return st.OCount
	case LangSortCh:
		return st.ChCount
	case LangSortMinus:
		return st.MinusCount
	case LangSortSigma:
		return st.FileCount
	default:
		return 0
	}
}

// SortLanguageStats orders the rows in place. When pendingFirst is set, the
// completion state becomes the primary key (auto-reset, then not-done, then
// done), with the selected key ordering within each group. Display name breaks
// remaining ties so the result is deterministic.
func SortLanguageStats(rows []models.FolderLangStats, key LanguageSortKey, pendingFirst, descending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]
		if pendingFirst {
			ra, rb := a.State().PendingRank(), b.State().PendingRank()
			if ra != rb {
				return ra < rb
			}
		}
		if key == LangSortName {
			if a.DisplayName != b.DisplayName {
				if descending {
					return a.DisplayName > b.DisplayName
				}
				return a.DisplayName < b.DisplayName
			}
			return false
		}
		va, vb := langSortValue(a, key), langSortValue(b, key)
		if va != vb {
			if descending {
				return va > vb
			}
			return va < vb
		}
		return a.DisplayName < b.DisplayName
	})
}

// RatingSortKey selects the column the rating view is ordered by.
type RatingSortKey string

const (
	RatingSortName RatingSortKey = "Name"
	RatingSort0S   RatingSortKey = "0S Count"
	RatingSort1S   RatingSortKey = "1S Count"
	RatingSort2S   RatingSortKey = "2S Count"
	RatingSort3S   RatingSortKey = "3S Count"
	RatingSort4S   RatingSortKey = "4S Count"
	RatingSort5S   RatingSortKey = "5S Count"
)

// RatingSortKeys lists the valid keys in display order.
var RatingSortKeys = []RatingSortKey{
	RatingSortName, RatingSort0S, RatingSort1S, RatingSort2S,
	RatingSort3S, RatingSort4S, RatingSort5S,
}

// ParseRatingSortKey validates a persisted key string.
func ParseRatingSortKey(s string) (RatingSortKey, error) {
	for _, key := range RatingSortKeys {
		if s == string(key) {
			return key, nil
		}
	}
	return "", fmt.Errorf("unknown rating sort key %q", s)
}

func ratingSortValue(st *models.FolderRatingStats, key RatingSortKey) int {
	switch key {
	case RatingSort0S:
		return st.RatingCounts[0]
	case RatingSort1S:
		return st.RatingCounts[1]
	case RatingSort2S:
		return st.RatingCounts[2]
	case RatingSort3S:
		return st.RatingCounts[3]
	case RatingSort4S:
		return st.RatingCounts[4]
	case RatingSort5S:
		return st.RatingCounts[5]
	default:
		return 0
	}
}

// SortRatingStats orders the rows in place. The rating view has no
// pending-first option.
func SortRatingStats(rows []models.FolderRatingStats, key RatingSortKey, descending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]
		if key == RatingSortName {
			if descending {
				return a.DisplayName > b.DisplayName
			}
			return a.DisplayName < b.DisplayName
		}
		va, vb := ratingSortValue(a, key), ratingSortValue(b, key)
		if va != vb {
			if descending {
				return va > vb
			}
			return va < vb
		}
		return a.DisplayName < b.DisplayName
	})
}
