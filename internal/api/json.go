package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/gedreader/internal/apperr"
	"github.com/starford/gedreader/internal/gedcom"
	"github.com/starford/gedreader/internal/index"
	"github.com/starford/gedreader/internal/logging"
	"github.com/starford/gedreader/internal/storage"
	"github.com/starford/gedreader/internal/textenc"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeError maps service errors to status codes. Anything unrecognised is
// logged and reported as a 500.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var pe *gedcom.ParseError
	switch {
	case errors.As(err, &pe):
		writeJSON(w, http.StatusUnprocessableEntity, ParseErrorResponse{
			Error:  pe.Error(),
			Kind:   pe.KindName(),
			Offset: pe.Offset,
		})
	case errors.Is(err, textenc.ErrUndecodable):
		writeJSON(w, http.StatusUnprocessableEntity, ParseErrorResponse{
			Error: err.Error(),
			Kind:  index.ErrorKindUndecodable,
		})
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody("tree already exists"))
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody("checksum mismatch"))
	case errors.Is(err, apperr.ErrUnsupported):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, storage.ErrInvalidPath):
		writeJSON(w, http.StatusBadRequest, errorBody("invalid path"))
	default:
		logging.FromContext(r.Context()).Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
