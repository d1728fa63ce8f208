package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/starford/note/internal/checksum"
	"github.com/starford/note/internal/models"
)

// FS implements Provider backed by one flat directory of <slug>.md files.
type FS struct {
	root string // absolute path to the notes directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute notes directory.
func (f *FS) Root() string {
	return f.root
}

// Path maps slug to its file, rejecting anything that is not a plain name
// inside the notes directory.
func (f *FS) Path(slug string) (string, error) {
	switch {
	case slug == "", slug == ".", slug == "..":
		return "", fmt.Errorf("storage: invalid slug %q", slug)
	case strings.ContainsAny(slug, `/\`), filepath.IsAbs(slug):
		return "", fmt.Errorf("storage: slug must not contain separators: %q", slug)
	}
	return filepath.Join(f.root, models.FileName(slug)), nil
}

// List returns metadata for every .md file directly inside the directory.
func (f *FS) List() ([]models.NoteMetadata, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	var out []models.NoteMetadata
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, models.NoteExt) || strings.HasPrefix(name, ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("storage: stat %s: %w", name, err)
		}
		data, err := os.ReadFile(filepath.Join(f.root, name))
		if err != nil {
			return nil, fmt.Errorf("storage: read %s: %w", name, err)
		}
		out = append(out, models.NoteMetadata{
			Slug:      strings.TrimSuffix(name, models.NoteExt),
			Checksum:  checksum.Sum(data),
			Size:      info.Size(),
			UpdatedAt: info.ModTime(),
		})
	}
	return out, nil
}

// Read returns the raw bytes of a note.
func (f *FS) Read(slug string) ([]byte, error) {
	p, err := f.Path(slug)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", slug, err)
	}
	return data, nil
}

// Write replaces a note in one rename, so readers never see partial content.
func (f *FS) Write(slug string, content []byte) error {
	p, err := f.Path(slug)
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(p, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("storage: write %s: %w", slug, err)
	}
	return nil
}

// Delete removes a note file.
func (f *FS) Delete(slug string) error {
	p, err := f.Path(slug)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		return fmt.Errorf("storage: delete %s: %w", slug, err)
	}
	return nil
}

// Exists reports whether a note file exists for slug.
func (f *FS) Exists(slug string) bool {
	p, err := f.Path(slug)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}
