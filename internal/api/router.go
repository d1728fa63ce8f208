package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/note/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/items", h.ListItems)
	r.Post("/items", h.CreateItem)
	r.Get("/items/*", h.GetItem)
	r.Delete("/items/*", h.DeleteItem)

	r.Get("/tree", h.Tree)
	r.Get("/search", h.Search)

	return r
}
