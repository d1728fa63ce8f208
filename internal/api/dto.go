package api

import "github.com/starford/note/internal/noteservice"

// CreateItemRequest is the request body for adding a note. Path is the
// parent path; "/" or empty places the note at the root. Title, Description
// and Tags may be omitted when Content carries them in its frontmatter.
type CreateItemRequest struct {
	Path        string   `json:"path" example:"/projects"`
	Title       string   `json:"title" example:"Weekly review"`
	Description string   `json:"description" example:"what happened this week"`
	Tags        []string `json:"tags" example:"review,weekly"`
	Content     string   `json:"content" example:"# Weekly review"`
}

// ItemSummary is a manifest entry with its resolved path.
type ItemSummary = noteservice.ItemSummary

// ItemDetail is an item together with its note content.
type ItemDetail = noteservice.ItemDetail

// ItemListResponse wraps a listing of items.
type ItemListResponse struct {
	Path  string        `json:"path" example:"/projects" validate:"required"`
	Items []ItemSummary `json:"items" validate:"required"`
}

// TreeResponse wraps every item sorted by path.
type TreeResponse struct {
	Items []ItemSummary `json:"items" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []noteservice.SearchHit `json:"results" validate:"required"`
}
