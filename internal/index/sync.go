package index

import (
	"fmt"
	"log/slog"

	"github.com/starford/note/internal/checksum"
	"github.com/starford/note/internal/parser"
	"github.com/starford/note/internal/storage"
)

// SyncStats counts what a Sync pass changed.
type SyncStats struct {
	Indexed int
	Removed int
	Failed  int
}

// Sync brings the index in line with the notes directory: new or changed
// files are parsed and upserted, and rows for missing files are removed.
// Per-file failures are logged and counted, not returned.
func Sync(db NoteIndex, store storage.Provider, logger *slog.Logger) (SyncStats, error) {
	var stats SyncStats

	metas, err := store.List()
	if err != nil {
		return stats, err
	}
	checksums, err := db.AllChecksums()
	if err != nil {
		return stats, err
	}

	onDisk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		onDisk[m.Slug] = struct{}{}
		if checksums[m.Slug] == m.Checksum {
			continue
		}
		data, err := store.Read(m.Slug)
		if err != nil {
			stats.Failed++
			logger.Warn("sync: read failed", slog.String("slug", m.Slug), slog.String("error", err.Error()))
			continue
		}
		if err := IndexNote(db, m.Slug, data); err != nil {
			stats.Failed++
			logger.Warn("sync: index failed", slog.String("slug", m.Slug), slog.String("error", err.Error()))
			continue
		}
		stats.Indexed++
		logger.Debug("sync: indexed", slog.String("slug", m.Slug))
	}

	for slug := range checksums {
		if _, ok := onDisk[slug]; ok {
			continue
		}
		if err := db.DeleteNote(slug); err != nil {
			stats.Failed++
			logger.Warn("sync: delete failed", slog.String("slug", slug), slog.String("error", err.Error()))
			continue
		}
		stats.Removed++
		logger.Debug("sync: removed stale", slog.String("slug", slug))
	}
	return stats, nil
}

// IndexNote parses data and upserts it under slug.
func IndexNote(db NoteIndex, slug string, data []byte) error {
	res := parser.Parse(data)
	if err := db.UpsertNote(NoteRow{
		Slug:        slug,
		Title:       res.Title,
		Description: res.Description,
		Checksum:    checksum.Sum(data),
		Tags:        res.Tags,
	}, res.Body); err != nil {
		return fmt.Errorf("index %s: %w", slug, err)
	}
	return nil
}
