package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"greencycle/internal/domain"
)

// UploadsGet serves a stored donation image by its storage key.
func (a *App) UploadsGet(w http.ResponseWriter, r *http.Request) {
	if a.currentUserID(r) == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	key := chi.URLParam(r, "key")
	data, err := a.Images.Read(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "file not found")
			return
		}
		a.Logger.Error().Err(err).Str("key", key).Msg("read upload failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to read file")
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
