// file: internal/playlist/names.go
// version: 1.1.0
// guid: 8b6e2f4c-0d7a-4e1b-9c58-3a2f6d8e0b97

package playlist

import (
	"fmt"

	"github.com/jackykwe/poweramp-helper/internal/models"
)

// Playlist file names are an external contract with the companion player and
// must be reproduced exactly, case included.
const (
	// AllName is the canonical rating-bearing playlist.
	AllName = "All.m3u8"
	// TaggedSongsName is the generated union of all language-tagged records.
	TaggedSongsName = "[Auto] Songs.m3u8"
)

// LanguageNames maps each language tag to its playlist file, in canonical
// order.
var LanguageNames = []struct {
	Language models.Language
	FileName string
}{
	{models.LangCh, "Songs - Choral.m3u8"},
	{models.LangCN, "Songs - CHN.m3u8"},
	{models.LangEN, "Songs - ENG.m3u8"},
	{models.LangJP, "Songs - JAP.m3u8"},
	{models.LangKR, "Songs - KOR.m3u8"},
	{models.LangO, "Songs - Others.m3u8"},
}

// RatedName returns the generated playlist file for one star rating.
func RatedName(stars int) string {
	return fmt.Sprintf("[Auto] %dS.m3u8", stars)
}
