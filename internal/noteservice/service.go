package noteservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/starford/note/internal/apperr"
	"github.com/starford/note/internal/checksum"
	"github.com/starford/note/internal/index"
	"github.com/starford/note/internal/manifest"
	"github.com/starford/note/internal/parser"
	"github.com/starford/note/internal/slug"
	"github.com/starford/note/internal/storage"
)

// ItemSummary is a manifest entry together with its resolved path.
type ItemSummary struct {
	Path        string   `json:"path"`
	Slug        string   `json:"slug"`
	Parent      *string  `json:"parent"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// ItemDetail adds the note content. Missing is set when the manifest entry
// outlived its note file.
type ItemDetail struct {
	ItemSummary
	Content  string `json:"content"`
	Checksum string `json:"checksum,omitempty"`
	Missing  bool   `json:"missing,omitempty"`
}

// SearchHit is a search result joined with the manifest. Path is empty for
// notes that have no manifest entry.
type SearchHit struct {
	Path    string `json:"path"`
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// AddInput describes a note to create. Empty fields are filled from the
// frontmatter of Content when it has one.
type AddInput struct {
	Path        string
	Title       string
	Description string
	Tags        []string
	Content     []byte
}

// Editor opens a file for interactive editing.
type Editor interface {
	Edit(ctx context.Context, path string) (changed bool, err error)
}

// Service coordinates the manifest, the note files and the search index.
type Service struct {
	store        storage.Provider
	db           index.NoteIndex
	manifestPath string
	editor       Editor
	logger       *slog.Logger

	// mu serializes load-insert-save within one process. Other processes
	// are kept out of the save itself by the manifest lock.
	mu sync.Mutex
}

// NewService creates a new note service.
func NewService(store storage.Provider, db index.NoteIndex, manifestPath string, editor Editor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:        store,
		db:           db,
		manifestPath: manifestPath,
		editor:       editor,
		logger:       logger,
	}
}

// ManifestPath returns the location of the manifest document.
func (s *Service) ManifestPath() string {
	return s.manifestPath
}

func (s *Service) load() (manifest.Manifest, error) {
	return manifest.LoadOrInit(s.manifestPath)
}

// Add creates a note file and inserts its manifest entry under in.Path.
// Nothing is written if the insert is rejected; if the manifest cannot be
// saved the new note file is removed again.
func (s *Service) Add(_ context.Context, in AddInput) (*ItemDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title, desc, tags := in.Title, in.Description, in.Tags
	if len(in.Content) > 0 {
		res := parser.Parse(in.Content)
		if title == "" {
			title = res.Title
		}
		if desc == "" {
			desc = res.Description
		}
		if tags == nil {
			tags = res.Tags
		}
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", apperr.ErrInvalidInput)
	}

	m, err := s.load()
	if err != nil {
		return nil, err
	}
	sl := slug.Unique(slug.Make(title), func(c string) bool {
		_, inManifest := m.BySlug(c)
		return inManifest || s.store.Exists(c)
	})

	next, err := m.Insert(manifest.CleanQuery(in.Path), sl, title, desc, tags)
	if err != nil {
		return nil, err
	}

	content := in.Content
	if len(content) == 0 {
		content = parser.Skeleton(title, desc, tags)
	}
	if err := s.store.Write(sl, content); err != nil {
		return nil, err
	}
	if err := manifest.Save(s.manifestPath, next); err != nil {
		if derr := s.store.Delete(sl); derr != nil {
			s.logger.Warn("add: cleanup failed", slog.String("slug", sl), slog.String("error", derr.Error()))
		}
		return nil, err
	}
	s.reindex(sl, content)

	it, _ := next.BySlug(sl)
	p, err := manifest.ResolvePath(it, next)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("add: created", slog.String("path", p), slog.String("slug", sl))
	return &ItemDetail{
		ItemSummary: summary(p, it),
		Content:     string(content),
		Checksum:    checksum.Sum(content),
	}, nil
}

// Show returns the item at path with its note content.
func (s *Service) Show(_ context.Context, path string) (*ItemDetail, error) {
	p, it, err := s.find(path)
	if err != nil {
		return nil, err
	}
	detail := &ItemDetail{ItemSummary: summary(p, it)}
	data, err := s.store.Read(it.Slug)
	switch {
	case err == nil:
		detail.Content = string(data)
		detail.Checksum = checksum.Sum(data)
	case errors.Is(err, os.ErrNotExist):
		detail.Missing = true
	default:
		return nil, err
	}
	return detail, nil
}

// List returns the direct children of path.
func (s *Service) List(_ context.Context, path string) ([]ItemSummary, error) {
	m, err := s.load()
	if err != nil {
		return nil, err
	}
	parent := manifest.CleanQuery(path)
	items, err := m.List(parent)
	if err != nil {
		return nil, err
	}
	out := make([]ItemSummary, 0, len(items))
	for _, it := range items {
		p, err := manifest.ResolvePath(it, m)
		if err != nil {
			return nil, err
		}
		out = append(out, summary(p, it))
	}
	return out, nil
}

// Tree returns every item, sorted by resolved path.
func (s *Service) Tree(_ context.Context) ([]ItemSummary, error) {
	m, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]ItemSummary, 0, m.Len())
	err = m.Walk(func(p string, it manifest.Item) error {
		out = append(out, summary(p, it))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Edit opens the note at path in the editor and re-indexes it if it changed.
func (s *Service) Edit(ctx context.Context, path string) (bool, error) {
	if s.editor == nil {
		return false, fmt.Errorf("%w: no editor", apperr.ErrInvalidInput)
	}
	_, it, err := s.find(path)
	if err != nil {
		return false, err
	}
	if !s.store.Exists(it.Slug) {
		return false, fmt.Errorf("%w: note file for %s", apperr.ErrNotFound, path)
	}
	file, err := s.store.Path(it.Slug)
	if err != nil {
		return false, err
	}
	changed, err := s.editor.Edit(ctx, file)
	if err != nil {
		return false, err
	}
	if changed {
		data, err := s.store.Read(it.Slug)
		if err != nil {
			return true, err
		}
		s.reindex(it.Slug, data)
	}
	return changed, nil
}

// Remove deletes the note file behind path and drops it from the search
// index. The manifest entry is kept: the manifest has no delete operation,
// so the entry stays and Show reports it as missing.
func (s *Service) Remove(_ context.Context, path string) (*ItemSummary, error) {
	p, it, err := s.find(path)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(it.Slug); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: note file for %s", apperr.ErrNotFound, path)
		}
		return nil, err
	}
	if s.db != nil {
		if err := s.db.DeleteNote(it.Slug); err != nil {
			s.logger.Warn("remove: index delete failed", slog.String("slug", it.Slug), slog.String("error", err.Error()))
		}
	}
	sum := summary(p, it)
	return &sum, nil
}

// Search queries the index and attaches manifest paths to the hits.
func (s *Service) Search(_ context.Context, query string, limit int) ([]SearchHit, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", apperr.ErrInvalidInput)
	}
	if s.db == nil {
		return nil, errors.New("search: index not available")
	}
	results, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	m, err := s.load()
	if err != nil {
		return nil, err
	}
	paths, err := m.Paths()
	if err != nil {
		return nil, err
	}
	hits := make([]SearchHit, len(results))
	for i, r := range results {
		hits[i] = SearchHit{
			Path:    paths[r.Slug],
			Slug:    r.Slug,
			Title:   r.Title,
			Snippet: r.Snippet,
		}
	}
	return hits, nil
}

// Reindex rebuilds the search index from the notes directory.
func (s *Service) Reindex(_ context.Context) (index.SyncStats, error) {
	if s.db == nil {
		return index.SyncStats{}, errors.New("reindex: index not available")
	}
	return index.Sync(s.db, s.store, s.logger)
}

// Unlock removes a stale manifest lock left by a crashed writer. It
// reports whether a lock was present.
func (s *Service) Unlock(_ context.Context) (bool, error) {
	held := manifest.Locked(s.manifestPath)
	if err := manifest.Unlock(s.manifestPath); err != nil {
		return false, err
	}
	return held, nil
}

func (s *Service) find(path string) (string, manifest.Item, error) {
	m, err := s.load()
	if err != nil {
		return "", manifest.Item{}, err
	}
	p := manifest.CleanQuery(path)
	it, ok, err := m.Find(p)
	if err != nil {
		return "", manifest.Item{}, err
	}
	if !ok {
		return "", manifest.Item{}, fmt.Errorf("%w: %s", apperr.ErrNotFound, p)
	}
	return p, it, nil
}

// reindex updates the search index; the index is a cache, so failures are
// logged rather than returned.
func (s *Service) reindex(sl string, data []byte) {
	if s.db == nil {
		return
	}
	if err := index.IndexNote(s.db, sl, data); err != nil {
		s.logger.Warn("index update failed", slog.String("slug", sl), slog.String("error", err.Error()))
	}
}

func summary(path string, it manifest.Item) ItemSummary {
	tags := it.Tags
	if tags == nil {
		tags = []string{}
	}
	return ItemSummary{
		Path:        path,
		Slug:        it.Slug,
		Parent:      it.Parent,
		Title:       it.Title,
		Description: it.Description,
		Tags:        tags,
	}
}
