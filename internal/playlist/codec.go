// file: internal/playlist/codec.go
// version: 1.3.0
// guid: 6c4d8e1a-9f2b-4c7e-b380-1d5a7f9e2c46

// Package playlist parses and serializes the two-line-per-record m3u8 variant
// produced by the companion player: one header line, then records of exactly
// two lines each — a marker line (carrying `#EXT-X-RATING:<n>` in the
// rating-bearing variant) followed by a path line whose last two `/`-separated
// segments are folderName/fileName.
//
// The format is positional and line-count-exact by construction, so the codec
// is deliberately strict: any framing deviation is a hard parse failure, never
// a silent skip. Skipping would desynchronize rating/tag data from the real
// file set.
package playlist

import (
	"fmt"
	"strconv"
	"strings"
)

// Header is the fixed first line of every playlist.
const Header = "#EXTM3U"

// RatingPrefix introduces the rating marker line of the "All" playlist.
const RatingPrefix = "#EXT-X-RATING:"

// MalformedPlaylistError reports a violated framing precondition.
type MalformedPlaylistError struct {
	Name   string
	Reason string
}

func (e *MalformedPlaylistError) Error() string {
	return fmt.Sprintf("playlist %q is malformed: %s", e.Name, e.Reason)
}

// LinePair is one raw record: the marker line and the path line, verbatim.
// It is comparable, so it can key deduplication sets.
type LinePair struct {
	Marker string
	Path   string
}

// FileName returns the final path segment of the record's path line.
func (p LinePair) FileName() string {
	segments := strings.Split(p.Path, "/")
	return segments[len(segments)-1]
}

// Record is one parsed playlist entry.
type Record struct {
	FolderName string
	FileName   string
	Rating     int // 0 for the rating-less variant
	Raw        LinePair
}

// readRecords performs the shared two-line framing: skip the single header
// line, then group the remaining lines in strict pairs. Both parse variants
// build on this; rating extraction is a post-step over the marker line.
func readRecords(name, text string) ([]LinePair, error) {
	lines := strings.Split(text, "\n")
	// A trailing newline yields one final empty element; drop it. Windows
	// line endings are normalized here too.
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, &MalformedPlaylistError{Name: name, Reason: "missing header line"}
	}
	lines = lines[1:] // header

	if len(lines)%2 != 0 {
		return nil, &MalformedPlaylistError{
			Name:   name,
			Reason: "a marker line is not followed by a line describing the corresponding music file",
		}
	}

	pairs := make([]LinePair, 0, len(lines)/2)
	for i := 0; i < len(lines); i += 2 {
		pairs = append(pairs, LinePair{Marker: lines[i], Path: lines[i+1]})
	}
	return pairs, nil
}

func splitPath(name string, pair LinePair) (folderName, fileName string, err error) {
	segments := strings.Split(pair.Path, "/")
	if len(segments) < 2 {
		return "", "", &MalformedPlaylistError{
			Name:   name,
			Reason: fmt.Sprintf("path %q has no folder segment", pair.Path),
		}
	}
	return segments[len(segments)-2], segments[len(segments)-1], nil
}

// ParseWithRating parses the rating-bearing variant (the "All" playlist).
func ParseWithRating(name, text string) ([]Record, error) {
	pairs, err := readRecords(name, text)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(pairs))
	for _, pair := range pairs {
		rest, ok := strings.CutPrefix(pair.Marker, RatingPrefix)
		if !ok {
			return nil, &MalformedPlaylistError{
				Name:   name,
				Reason: fmt.Sprintf("marker line %q does not carry a rating", pair.Marker),
			}
		}
		rating, err := strconv.Atoi(rest)
		if err != nil {
			return nil, &MalformedPlaylistError{
				Name:   name,
				Reason: fmt.Sprintf("rating segment %q is not an integer", rest),
			}
		}
		folderName, fileName, err := splitPath(name, pair)
		if err != nil {
			return nil, err
		}
		records = append(records, Record{
			FolderName: folderName,
			FileName:   fileName,
			Rating:     rating,
			Raw:        pair,
		})
	}
	return records, nil
}

// ParseLanguageList parses the rating-less variant. Framing is identical to
// ParseWithRating; the marker line is kept verbatim but not interpreted.
func ParseLanguageList(name, text string) ([]Record, error) {
	pairs, err := readRecords(name, text)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(pairs))
	for _, pair := range pairs {
		folderName, fileName, err := splitPath(name, pair)
		if err != nil {
			return nil, err
		}
		records = append(records, Record{
			FolderName: folderName,
			FileName:   fileName,
			Raw:        pair,
		})
	}
	return records, nil
}

// Render serializes the header and each record's two lines, one per physical
// line.
func Render(pairs []LinePair) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	for _, pair := range pairs {
		b.WriteString(pair.Marker)
		b.WriteByte('\n')
		b.WriteString(pair.Path)
		b.WriteByte('\n')
	}
	return b.String()
}
