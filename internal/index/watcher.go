package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/note/internal/models"
	"github.com/starford/note/internal/storage"
)

// EventCallback is called after a watcher-driven index change.
// kind is one of "indexed" or "removed".
type EventCallback func(kind, slug string)

// Watch keeps the index current while notes are edited outside the tool.
// It watches the (flat) notes directory until ctx is cancelled and calls
// cb, if non-nil, after each index change.
func Watch(ctx context.Context, db NoteIndex, store storage.Provider, dir string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			slug, ok := slugOf(ev.Name)
			if !ok {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, err := store.Read(slug)
				if err != nil {
					// Write events can race a rename away; the rename
					// itself is handled below.
					logger.Debug("watcher: read failed", slog.String("slug", slug), slog.String("error", err.Error()))
					continue
				}
				if err := IndexNote(db, slug, data); err != nil {
					logger.Warn("watcher: index failed", slog.String("slug", slug), slog.String("error", err.Error()))
					continue
				}
				logger.Debug("watcher: indexed", slog.String("slug", slug))
				if cb != nil {
					cb("indexed", slug)
				}

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				if store.Exists(slug) {
					continue
				}
				if err := db.DeleteNote(slug); err != nil {
					logger.Warn("watcher: delete failed", slog.String("slug", slug), slog.String("error", err.Error()))
					continue
				}
				logger.Debug("watcher: removed", slog.String("slug", slug))
				if cb != nil {
					cb("removed", slug)
				}
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", err.Error()))
		}
	}
}

// slugOf maps a watched file name to its note slug. Hidden and temporary
// files are ignored.
func slugOf(name string) (string, bool) {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, models.NoteExt) {
		return "", false
	}
	slug := strings.TrimSuffix(base, models.NoteExt)
	return slug, slug != ""
}
