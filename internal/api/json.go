package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/note/internal/apperr"
	"github.com/starford/note/internal/manifest"
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

// writeError maps service and manifest errors onto HTTP statuses. Anything
// unrecognised is logged and reported as an internal error.
func writeError(w http.ResponseWriter, op string, err error) {
	var status int
	switch {
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, manifest.ErrNoSuchParent):
		status = http.StatusNotFound
	case errors.Is(err, manifest.ErrDuplicatePath):
		status = http.StatusConflict
	case errors.Is(err, manifest.ErrLockHeld):
		status = http.StatusLocked
	case errors.Is(err, apperr.ErrInvalidInput), errors.Is(err, manifest.ErrInvalidItem):
		status = http.StatusBadRequest
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, status, errorBody(err.Error()))
}
