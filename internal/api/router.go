package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/gedreader/internal/treeservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *treeservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Trees CRUD.
	r.Get("/trees", h.ListTrees)
	r.Post("/trees", h.CreateTree)
	r.Post("/trees/upload", h.Upload)
	r.Get("/trees/*", h.GetTree)
	r.Put("/trees/*", h.UpdateTree)
	r.Delete("/trees/*", h.DeleteTree)

	// Published collections.
	r.Get("/individuals", h.Individuals)
	r.Get("/families", h.Families)
	r.Get("/sources", h.Sources)
	r.Get("/others", h.Others)
	r.Get("/records", h.Record)

	// Stateless parse.
	r.Post("/parse", h.Parse)

	// Search.
	r.Get("/search", h.Search)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
