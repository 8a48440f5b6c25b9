package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/gedreader/internal/collation"
	"github.com/starford/gedreader/internal/treeservice"
)

const maxTreeBytes = 32 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *treeservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *treeservice.Service) *Handler {
	return &Handler{svc: svc}
}

// treePath extracts the tree path from the URL (everything after /api/trees/).
// Supports encoded slashes from OpenAPI clients (e.g. branches%2Fwindsor.ged).
func treePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// treeQuery reads the required tree and optional sort query parameters.
func treeQuery(w http.ResponseWriter, r *http.Request) (string, collation.Key, bool) {
	q := r.URL.Query()
	tree := q.Get("tree")
	if tree == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'tree' is required"))
		return "", "", false
	}
	key, err := collation.ParseKey(q.Get("sort"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return "", "", false
	}
	return tree, key, true
}

// ListTrees handles GET /api/trees.
//
//	@Summary		List trees in the library
//	@Tags			trees
//	@Produce		json
//	@Success		200	{object}	TreeListResponse
//	@Security		BearerAuth
//	@Router			/trees [get]
func (h *Handler) ListTrees(w http.ResponseWriter, r *http.Request) {
	trees, err := h.svc.ListTrees(r.Context())
	if err != nil {
		writeError(w, r, "list trees", err)
		return
	}
	writeJSON(w, http.StatusOK, TreeListResponse{Trees: trees, Total: len(trees)})
}

// GetTree handles GET /api/trees/*.
//
//	@Summary		Get a tree with its published records
//	@Tags			trees
//	@Produce		json
//	@Param			path	path		string	true	"Tree path"
//	@Success		200		{object}	TreeDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/trees/{path} [get]
func (h *Handler) GetTree(w http.ResponseWriter, r *http.Request) {
	path := treePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	tree, err := h.svc.Tree(r.Context(), path)
	if err != nil {
		writeError(w, r, "get tree", err)
		return
	}
	w.Header().Set("ETag", `"`+tree.Checksum+`"`)
	writeJSON(w, http.StatusOK, tree)
}

// CreateTree handles POST /api/trees.
//
//	@Summary		Import a new tree
//	@Tags			trees
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateTreeRequest	true	"Tree to import"
//	@Success		201		{object}	TreeDetail
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Failure		422		{object}	ParseErrorResponse
//	@Security		BearerAuth
//	@Router			/trees [post]
func (h *Handler) CreateTree(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTreeBytes)
	var req CreateTreeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" || req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path and content are required"))
		return
	}
	tree, err := h.svc.Import(r.Context(), req.Path, []byte(req.Content))
	if err != nil {
		writeError(w, r, "create tree", err)
		return
	}
	writeJSON(w, http.StatusCreated, tree)
}

// UpdateTree handles PUT /api/trees/*.
//
//	@Summary		Replace a tree with optimistic concurrency
//	@Tags			trees
//	@Accept			json
//	@Produce		json
//	@Param			path		path	string				true	"Tree path"
//	@Param			If-Match	header	string				false	"SHA-256 checksum for optimistic concurrency"
//	@Param			body		body	UpdateTreeRequest	true	"Replacement content"
//	@Success		200		{object}	TreeDetail
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Failure		422		{object}	ParseErrorResponse
//	@Security		BearerAuth
//	@Router			/trees/{path} [put]
func (h *Handler) UpdateTree(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTreeBytes)
	path := treePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	var req UpdateTreeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("content is required"))
		return
	}

	// Strip surrounding quotes if present (standard ETag format).
	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	tree, err := h.svc.Replace(r.Context(), path, []byte(req.Content), ifMatch)
	if err != nil {
		writeError(w, r, "update tree", err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// DeleteTree handles DELETE /api/trees/*.
func (h *Handler) DeleteTree(w http.ResponseWriter, r *http.Request) {
	path := treePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.svc.Delete(r.Context(), path); err != nil {
		writeError(w, r, "delete tree", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Individuals handles GET /api/individuals?tree=&sort=id|name.
//
//	@Summary		List the individuals of a tree
//	@Tags			records
//	@Produce		json
//	@Param			tree	query		string	true	"Tree path"
//	@Param			sort	query		string	false	"Sort key"	Enums(id, name)
//	@Success		200		{object}	IndividualsResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/individuals [get]
func (h *Handler) Individuals(w http.ResponseWriter, r *http.Request) {
	tree, key, ok := treeQuery(w, r)
	if !ok {
		return
	}
	list, err := h.svc.Individuals(r.Context(), tree, key)
	if err != nil {
		writeError(w, r, "list individuals", err)
		return
	}
	writeJSON(w, http.StatusOK, IndividualsResponse{Tree: tree, Individuals: list})
}

// Families handles GET /api/families?tree=&sort=id.
func (h *Handler) Families(w http.ResponseWriter, r *http.Request) {
	tree, key, ok := treeQuery(w, r)
	if !ok {
		return
	}
	list, err := h.svc.Families(r.Context(), tree, key)
	if err != nil {
		writeError(w, r, "list families", err)
		return
	}
	writeJSON(w, http.StatusOK, FamiliesResponse{Tree: tree, Families: list})
}

// Sources handles GET /api/sources?tree=&sort=id.
func (h *Handler) Sources(w http.ResponseWriter, r *http.Request) {
	tree, key, ok := treeQuery(w, r)
	if !ok {
		return
	}
	list, err := h.svc.Sources(r.Context(), tree, key)
	if err != nil {
		writeError(w, r, "list sources", err)
		return
	}
	writeJSON(w, http.StatusOK, RecordsResponse{Tree: tree, Records: list})
}

// Others handles GET /api/others?tree=&sort=id.
func (h *Handler) Others(w http.ResponseWriter, r *http.Request) {
	tree, key, ok := treeQuery(w, r)
	if !ok {
		return
	}
	list, err := h.svc.Others(r.Context(), tree, key)
	if err != nil {
		writeError(w, r, "list others", err)
		return
	}
	writeJSON(w, http.StatusOK, RecordsResponse{Tree: tree, Records: list})
}

// Record handles GET /api/records?tree=&id=.
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tree, id := q.Get("tree"), q.Get("id")
	if tree == "" || id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameters 'tree' and 'id' are required"))
		return
	}
	rec, err := h.svc.Record(r.Context(), tree, id)
	if err != nil {
		writeError(w, r, "get record", err)
		return
	}
	writeJSON(w, http.StatusOK, recordResponse(rec))
}

// Parse handles POST /api/parse. The request body is the raw file content;
// nothing is stored.
//
//	@Summary		Parse a lineage file without storing it
//	@Tags			parse
//	@Accept			plain
//	@Produce		json
//	@Param			sort	query		string	false	"Sort key"	Enums(id, name)
//	@Success		200		{object}	ParseResult
//	@Failure		422		{object}	ParseErrorResponse
//	@Security		BearerAuth
//	@Router			/parse [post]
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTreeBytes)
	key, err := collation.ParseKey(r.URL.Query().Get("sort"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	res, err := h.svc.Parse(r.Context(), data, key)
	if err != nil {
		writeError(w, r, "parse", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across all published records
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
	hits, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, r, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse(hits))
}
