package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/note/internal/manifest"
	"github.com/starford/note/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// itemPath turns the wildcard after /api/items/ into a manifest path.
// Encoded slashes (projects%2Fweekly) are accepted.
func itemPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	return manifest.Root + raw
}

// ListItems handles GET /api/items.
//
//	@Summary		List the direct children of a path
//	@Tags			items
//	@Produce		json
//	@Param			path	query		string	false	"Parent path (defaults to /)"
//	@Success		200		{object}	ItemListResponse
//	@Security		BearerAuth
//	@Router			/items [get]
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	path := manifest.CleanQuery(r.URL.Query().Get("path"))
	items, err := h.svc.List(r.Context(), path)
	if err != nil {
		writeError(w, "list items", err)
		return
	}
	writeJSON(w, http.StatusOK, ItemListResponse{Path: path, Items: items})
}

// GetItem handles GET /api/items/*.
//
//	@Summary		Get a single item with its note content
//	@Tags			items
//	@Produce		json
//	@Param			path	path		string	true	"Item path"
//	@Success		200		{object}	ItemDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/items/{path} [get]
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	path := itemPath(r)
	if manifest.IsRootPath(path) {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	item, err := h.svc.Show(r.Context(), path)
	if err != nil {
		writeError(w, "get item", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// CreateItem handles POST /api/items.
//
//	@Summary		Add a note under a parent path
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateItemRequest	true	"Item to create"
//	@Success		201		{object}	ItemDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Failure		423		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/items [post]
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	item, err := h.svc.Add(r.Context(), noteservice.AddInput{
		Path:        req.Path,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Content:     []byte(req.Content),
	})
	if err != nil {
		writeError(w, "create item", err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// DeleteItem handles DELETE /api/items/*. Only the note file is removed;
// the manifest entry stays.
//
//	@Summary		Delete the note file behind an item
//	@Tags			items
//	@Param			path	path	string	true	"Item path"
//	@Success		204		"Note deleted"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/items/{path} [delete]
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	path := itemPath(r)
	if manifest.IsRootPath(path) {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if _, err := h.svc.Remove(r.Context(), path); err != nil {
		writeError(w, "delete item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Tree handles GET /api/tree.
//
//	@Summary		List every item sorted by path
//	@Tags			items
//	@Produce		json
//	@Success		200	{object}	TreeResponse
//	@Security		BearerAuth
//	@Router			/tree [get]
func (h *Handler) Tree(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Tree(r.Context())
	if err != nil {
		writeError(w, "tree", err)
		return
	}
	writeJSON(w, http.StatusOK, TreeResponse{Items: items})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across notes
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	if results == nil {
		results = []noteservice.SearchHit{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
