package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// FileName is the manifest document name inside the state directory.
const FileName = "manifest.json"

type document struct {
	Items *[]json.RawMessage `json:"items"`
}

// Decode parses a manifest document of the form {"items": [...]}.
func Decode(data []byte) (Manifest, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Manifest{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if doc.Items == nil {
		return Manifest{}, fmt.Errorf("%w: missing items", ErrDecode)
	}
	items := make([]Item, 0, len(*doc.Items))
	for i, raw := range *doc.Items {
		it, err := DecodeItem(raw)
		if err != nil {
			return Manifest{}, fmt.Errorf("items[%d]: %w", i, err)
		}
		items = append(items, it)
	}
	return New(items...), nil
}

// Encode renders m as an indented manifest document.
func Encode(m Manifest) ([]byte, error) {
	items := m.items
	if items == nil {
		items = []Item{}
	}
	data, err := json.MarshalIndent(struct {
		Items []Item `json:"items"`
	}{items}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("manifest: encode: %w", err)
	}
	return append(data, '\n'), nil
}

// LoadOrInit reads the manifest at path. If no file exists it writes an
// empty document there and returns an empty manifest.
func LoadOrInit(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return Decode(data)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Manifest{}, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Manifest{}, fmt.Errorf("manifest: mkdir: %w", err)
	}
	if err := write(path, Empty()); err != nil {
		return Manifest{}, err
	}
	return Empty(), nil
}

// Save replaces the manifest at path with m while holding the lock. It
// fails with ErrLockHeld if another writer holds it.
func Save(path string, m Manifest) error {
	return WithLock(path, func() error {
		return write(path, m)
	})
}

func write(path string, m Manifest) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return nil
}
