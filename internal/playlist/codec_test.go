// file: internal/playlist/codec_test.go
// version: 1.2.0
// guid: 1d5f8b3e-6a9c-4e2d-b074-8c3f6a1d9e52

package playlist

import (
	"errors"
	"strings"
	"testing"

	"github.com/jackykwe/poweramp-helper/internal/models"
)

const allPlaylist = "#EXTM3U\n" +
	"#EXT-X-RATING:5\n" +
	"Music/Album A/track1.mp3\n" +
	"#EXT-X-RATING:0\n" +
	"Music/Album B/track2.flac\n"

func TestParseWithRating(t *testing.T) {
	records, err := ParseWithRating("All.m3u8", allPlaylist)
	if err != nil {
		t.Fatalf("ParseWithRating failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.FolderName != "Album A" || first.FileName != "track1.mp3" || first.Rating != 5 {
		t.Errorf("unexpected first record: %+v", first)
	}
	if first.Raw.Marker != "#EXT-X-RATING:5" || first.Raw.Path != "Music/Album A/track1.mp3" {
		t.Errorf("raw pair not preserved verbatim: %+v", first.Raw)
	}
	if records[1].Rating != 0 {
		t.Errorf("expected rating 0, got %d", records[1].Rating)
	}
}

// Windows line endings and a missing trailing newline must both parse to the
// same records as the canonical form.
func TestParseWithRatingLineEndingVariants(t *testing.T) {
	crlf := strings.ReplaceAll(allPlaylist, "\n", "\r\n")
	noTrailing := strings.TrimSuffix(allPlaylist, "\n")

	for _, text := range []string{crlf, noTrailing} {
		records, err := ParseWithRating("All.m3u8", text)
		if err != nil {
			t.Fatalf("ParseWithRating failed: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("expected 2 records, got %d", len(records))
		}
	}
}

func TestParseWithRatingMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty input", ""},
		{"dangling marker line", "#EXTM3U\n#EXT-X-RATING:3\n"},
		{"marker without rating", "#EXTM3U\n#EXTINF:123\nMusic/A/t.mp3\n"},
		{"non-integer rating", "#EXTM3U\n#EXT-X-RATING:five\nMusic/A/t.mp3\n"},
		{"path without folder segment", "#EXTM3U\n#EXT-X-RATING:1\ntrack.mp3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWithRating("All.m3u8", tt.text)
			var malformed *MalformedPlaylistError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedPlaylistError, got %v", err)
			}
			if malformed.Name != "All.m3u8" {
				t.Errorf("error names wrong playlist: %q", malformed.Name)
			}
		})
	}
}

// Language playlists use the same framing but do not interpret the marker
// line, so a rating-less marker is fine there.
func TestParseLanguageList(t *testing.T) {
	text := "#EXTM3U\n#EXTINF:200,Some Title\nMusic/Album A/track1.mp3\n"
	records, err := ParseLanguageList("Songs - ENG.m3u8", text)
	if err != nil {
		t.Fatalf("ParseLanguageList failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].FolderName != "Album A" || records[0].FileName != "track1.mp3" {
		t.Errorf("unexpected record: %+v", records[0])
	}
	if records[0].Rating != 0 {
		t.Errorf("rating should stay zero, got %d", records[0].Rating)
	}
}

func TestParseLanguageListOddLines(t *testing.T) {
	_, err := ParseLanguageList("Songs - ENG.m3u8", "#EXTM3U\n#EXTINF:1\n")
	var malformed *MalformedPlaylistError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedPlaylistError, got %v", err)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	records, err := ParseWithRating("All.m3u8", allPlaylist)
	if err != nil {
		t.Fatalf("ParseWithRating failed: %v", err)
	}
	pairs := make([]LinePair, len(records))
	for i, rec := range records {
		pairs[i] = rec.Raw
	}
	if got := Render(pairs); got != allPlaylist {
		t.Errorf("Render mismatch:\ngot:  %q\nwant: %q", got, allPlaylist)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(nil); got != "#EXTM3U\n" {
		t.Errorf("empty render = %q, want header only", got)
	}
}

func TestLinePairFileName(t *testing.T) {
	p := LinePair{Path: "a/b/c.mp3"}
	if got := p.FileName(); got != "c.mp3" {
		t.Errorf("FileName() = %q, want %q", got, "c.mp3")
	}
}

func TestRatedName(t *testing.T) {
	if got := RatedName(0); got != "[Auto] 0S.m3u8" {
		t.Errorf("RatedName(0) = %q", got)
	}
	if got := RatedName(5); got != "[Auto] 5S.m3u8" {
		t.Errorf("RatedName(5) = %q", got)
	}
}

// The language playlist set is an external contract: six entries, exact names.
func TestLanguageNames(t *testing.T) {
	want := map[models.Language]string{
		models.LangCh: "Songs - Choral.m3u8",
		models.LangCN: "Songs - CHN.m3u8",
		models.LangEN: "Songs - ENG.m3u8",
		models.LangJP: "Songs - JAP.m3u8",
		models.LangKR: "Songs - KOR.m3u8",
		models.LangO:  "Songs - Others.m3u8",
	}
	if len(LanguageNames) != len(want) {
		t.Fatalf("expected %d language playlists, got %d", len(want), len(LanguageNames))
	}
	for _, lp := range LanguageNames {
		if want[lp.Language] != lp.FileName {
			t.Errorf("language %v maps to %q, want %q", lp.Language, lp.FileName, want[lp.Language])
		}
	}
}
