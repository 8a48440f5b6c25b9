package api

import (
	"io"
	"net/http"
	"path"
	"strings"
)

const maxUploadBytes = 50 << 20 // 50 MB

// Upload handles POST /api/trees/upload (multipart/form-data, field "file").
// The optional "path" field places the tree in a subdirectory; it defaults
// to the uploaded file name.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	target := strings.TrimSpace(r.FormValue("path"))
	if target == "" {
		target = path.Base(strings.ReplaceAll(header.Filename, `\`, "/"))
	}
	if target == "" || target == "." || target == "/" {
		writeJSON(w, http.StatusBadRequest, errorBody("filename is required"))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read upload"))
		return
	}

	tree, err := h.svc.Import(r.Context(), target, data)
	if err != nil {
		writeError(w, r, "upload tree", err)
		return
	}
	writeJSON(w, http.StatusCreated, tree)
}
