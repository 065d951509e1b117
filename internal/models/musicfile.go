// file: internal/models/musicfile.go
// version: 1.0.0
// guid: 7d5b3e2f-91c4-4a8d-b6e0-2f8a4c7d9e13

package models

// Language identifies one of the six independent language tags a file can
// carry. A file may carry zero, one, or several.
type Language int

const (
	LangEN Language = iota // ENG
	LangCN                 // CHN
	LangJP                 // JAP
	LangKR                 // KOR
	LangO                  // Others
	LangCh                 // Choral
)

// Languages lists all tags in canonical order.
var Languages = [6]Language{LangEN, LangCN, LangJP, LangKR, LangO, LangCh}

func (l Language) String() string {
	switch l {
	case LangEN:
		return "EN"
	case LangCN:
		return "CN"
	case LangJP:
		return "JP"
	case LangKR:
		return "KR"
	case LangO:
		return "O"
	case LangCh:
		return "Ch"
	default:
		return "?"
	}
}

// MusicFile is one audio file inside a catalogued folder. Identity is the
// (FolderID, FileName) pair; the parent folder's deletion cascades here.
type MusicFile struct {
	FolderID string
	FileName string
	Rating   int // 0..5, 0 = unrated
	LangEN   bool
	LangCN   bool
	LangJP   bool
	LangKR   bool
	LangO    bool
	LangCh   bool
}

// HasLanguage reports whether the given tag is set.
func (f *MusicFile) HasLanguage(l Language) bool {
	switch l {
	case LangEN:
		return f.LangEN
	case LangCN:
		return f.LangCN
	case LangJP:
		return f.LangJP
	case LangKR:
		return f.LangKR
	case LangO:
		return f.LangO
	case LangCh:
		return f.LangCh
	default:
		return false
	}
}

// Untagged reports whether the file carries none of the six language tags.
func (f *MusicFile) Untagged() bool {
	return !f.LangEN && !f.LangCN && !f.LangJP && !f.LangKR && !f.LangO && !f.LangCh
}
