package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/astreus-ai/astreus-admin-be/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service-layer sentinel errors to HTTP statuses.
// Anything unrecognized becomes a generic 500 so internals never leak.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(w, http.StatusNotFound, "Record not found")
	case errors.Is(err, services.ErrUsernameTaken):
		respondError(w, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, services.ErrSelfDelete):
		respondError(w, http.StatusBadRequest, "You cannot delete your own account")
	case errors.Is(err, services.ErrLastAdmin):
		respondError(w, http.StatusBadRequest, "Cannot delete the last administrator account")
	case errors.Is(err, services.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
