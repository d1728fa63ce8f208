// Package storage defines the flat notes directory abstraction.
package storage

import "github.com/starford/note/internal/models"

// Reader is the read side the manifest layer needs: note content by slug.
type Reader interface {
	// Read returns the raw bytes of the note stored under slug.
	Read(slug string) ([]byte, error)
}

// Provider is the interface for note file operations.
type Provider interface {
	Reader
	// List returns metadata for every note file in the directory.
	List() ([]models.NoteMetadata, error)
	// Write atomically replaces the note stored under slug.
	Write(slug string, content []byte) error
	// Delete removes the note stored under slug.
	Delete(slug string) error
	// Exists reports whether a note file exists for slug.
	Exists(slug string) bool
	// Path returns the absolute file path for slug.
	Path(slug string) (string, error)
}
