// Package models defines the note types shared by storage, index and service.
package models

import "time"

// NoteExt is the extension of every note file.
const NoteExt = ".md"

// NoteMetadata is a lightweight description of one note file.
type NoteMetadata struct {
	Slug      string    `json:"slug"`
	Checksum  string    `json:"checksum"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileName returns the flat file name for slug.
func FileName(slug string) string {
	return slug + NoteExt
}
