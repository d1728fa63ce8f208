// Package manifest maintains the hierarchical index of notes.
//
// Notes live as flat files named by slug; the manifest arranges them into a
// virtual tree. Each Item names its parent by slug, and the path of an item
// ("/notebook/chapter/note") is derived on demand by walking those references
// up to a root. The manifest is persisted as a single JSON document and
// rewritten whole, under a sentinel lock file, on every save.
package manifest

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Item is one manifest entry. Values are treated as immutable; use NewItem
// to build one so that slices are not shared with the caller.
type Item struct {
	Parent      *string
	Slug        string
	Title       string
	Description string
	Tags        []string
}

// NewItem builds an Item. A nil parent makes a root item.
func NewItem(parent *string, slug, title, description string, tags []string) Item {
	var p *string
	if parent != nil {
		s := *parent
		p = &s
	}
	t := make([]string, len(tags))
	copy(t, tags)
	return Item{
		Parent:      p,
		Slug:        slug,
		Title:       title,
		Description: description,
		Tags:        t,
	}
}

// IsRoot reports whether the item has no parent.
func (it Item) IsRoot() bool {
	return it.Parent == nil
}

// ParentSlug returns the parent slug, or "" for root items.
func (it Item) ParentSlug() string {
	if it.Parent == nil {
		return ""
	}
	return *it.Parent
}

// Validate checks the fields an inserted item must carry.
func (it Item) Validate() error {
	return validation.ValidateStruct(&it,
		validation.Field(&it.Slug, validation.Required),
		validation.Field(&it.Title, validation.Required),
	)
}

// itemDocument is the on-disk shape of an Item. Pointer fields let decoding
// tell a missing key from a zero value.
type itemDocument struct {
	Parent      *string   `json:"parent"`
	Slug        *string   `json:"slug"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
}

// MarshalJSON writes all five keys; parent is null for root items.
func (it Item) MarshalJSON() ([]byte, error) {
	tags := it.Tags
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(itemDocument{
		Parent:      it.Parent,
		Slug:        &it.Slug,
		Title:       &it.Title,
		Description: &it.Description,
		Tags:        &tags,
	})
}

// UnmarshalJSON requires slug, title, description and tags. A missing or
// null parent yields a root item.
func (it *Item) UnmarshalJSON(data []byte) error {
	var doc itemDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: item: %v", ErrDecode, err)
	}
	switch {
	case doc.Slug == nil:
		return fmt.Errorf("%w: item: missing slug", ErrDecode)
	case doc.Title == nil:
		return fmt.Errorf("%w: item %q: missing title", ErrDecode, *doc.Slug)
	case doc.Description == nil:
		return fmt.Errorf("%w: item %q: missing description", ErrDecode, *doc.Slug)
	case doc.Tags == nil:
		return fmt.Errorf("%w: item %q: missing tags", ErrDecode, *doc.Slug)
	}
	*it = NewItem(doc.Parent, *doc.Slug, *doc.Title, *doc.Description, *doc.Tags)
	return nil
}

// DecodeItem parses a single item document.
func DecodeItem(data []byte) (Item, error) {
	var it Item
	if err := json.Unmarshal(data, &it); err != nil {
		return Item{}, err
	}
	return it, nil
}
