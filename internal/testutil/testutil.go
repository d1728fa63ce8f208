// Package testutil provides shared test helpers for notes directories,
// manifests and index databases.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/starford/note/internal/index"
	"github.com/starford/note/internal/manifest"
	"github.com/starford/note/internal/storage"
)

// TestDB creates a temporary SQLite index that is closed on cleanup.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestNotes creates a temporary notes directory with a storage.Provider.
func TestNotes(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// ManifestPath returns a manifest location inside a fresh state directory.
// The document itself is not created.
func ManifestPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "state", manifest.FileName)
}
