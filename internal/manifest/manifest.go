package manifest

import (
	"errors"
	"fmt"
)

// Manifest is an ordered collection of Items with a slug lookup table.
//
// A Manifest is a value: no method modifies the receiver, and Insert returns
// a new Manifest. The zero value is an empty manifest.
type Manifest struct {
	items  []Item
	bySlug map[string]int // slug -> index of its first occurrence
}

// Empty returns a manifest with no items.
func Empty() Manifest {
	return Manifest{}
}

// New builds a manifest holding items in the given order.
func New(items ...Item) Manifest {
	m := Manifest{items: make([]Item, len(items))}
	copy(m.items, items)
	m.index()
	return m
}

func (m *Manifest) index() {
	m.bySlug = make(map[string]int, len(m.items))
	for i, it := range m.items {
		if _, ok := m.bySlug[it.Slug]; !ok {
			m.bySlug[it.Slug] = i
		}
	}
}

// Items returns a copy of the items in collection order.
func (m Manifest) Items() []Item {
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out
}

// Len returns the number of items.
func (m Manifest) Len() int {
	return len(m.items)
}

// BySlug returns the first item carrying slug.
func (m Manifest) BySlug(slug string) (Item, bool) {
	i, ok := m.bySlug[slug]
	if !ok {
		return Item{}, false
	}
	return m.items[i], true
}

// Walk resolves every item in collection order and calls fn with its path.
// It stops at the first resolution error or the first error fn returns.
func (m Manifest) Walk(fn func(path string, it Item) error) error {
	for _, it := range m.items {
		p, err := ResolvePath(it, m)
		if err != nil {
			return err
		}
		if err := fn(p, it); err != nil {
			return err
		}
	}
	return nil
}

// errStop ends a Walk early without reporting a failure.
var errStop = errors.New("stop")

// Find returns the first item whose resolved path equals path.
func (m Manifest) Find(path string) (Item, bool, error) {
	var (
		found Item
		ok    bool
	)
	err := m.Walk(func(p string, it Item) error {
		if p == path {
			found, ok = it, true
			return errStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return Item{}, false, err
	}
	return found, ok, nil
}

// Exists reports whether some item resolves to path.
func (m Manifest) Exists(path string) (bool, error) {
	_, ok, err := m.Find(path)
	return ok, err
}

// List returns the direct children of path: items whose resolved path sits
// exactly one level below it.
func (m Manifest) List(path string) ([]Item, error) {
	var out []Item
	err := m.Walk(func(p string, it Item) error {
		if Dir(p) == path {
			out = append(out, it)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Paths maps each slug to the resolved path of its first item.
func (m Manifest) Paths() (map[string]string, error) {
	out := make(map[string]string, len(m.items))
	err := m.Walk(func(p string, it Item) error {
		if _, ok := out[it.Slug]; !ok {
			out[it.Slug] = p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Insert adds a new item under path and returns the resulting manifest.
//
// An empty path or "/" inserts a root item. Any other path must resolve to an
// existing item, whose slug becomes the new item's parent. The insert fails
// without touching m if the parent is missing, the item is invalid, or the
// new item's path is already taken.
func (m Manifest) Insert(path, slug, title, description string, tags []string) (Manifest, error) {
	var parent *string
	if !IsRootPath(path) {
		p, ok, err := m.Find(path)
		if err != nil {
			return m, err
		}
		if !ok {
			return m, fmt.Errorf("%w: %s", ErrNoSuchParent, path)
		}
		parent = &p.Slug
	}

	candidate := NewItem(parent, slug, title, description, tags)
	if err := candidate.Validate(); err != nil {
		return m, fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}

	target, err := ResolvePath(candidate, m)
	if err != nil {
		return m, err
	}
	taken, err := m.Exists(target)
	if err != nil {
		return m, err
	}
	if taken {
		return m, fmt.Errorf("%w: %s", ErrDuplicatePath, target)
	}

	next := Manifest{items: make([]Item, 0, len(m.items)+1)}
	next.items = append(next.items, candidate)
	next.items = append(next.items, m.items...)
	next.index()
	return next, nil
}
