package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mahinrabby10101/farm-backend/internal/domain/entity"
	"github.com/mahinrabby10101/farm-backend/internal/platform/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// respondError maps the domain error taxonomy onto wire status codes.
// Validation, not-found, forbidden and conflict are expected user-facing
// outcomes; only unexpected failures are logged as errors.
func respondError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrForbidden):
		respondJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrConflict):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		log.Errorf("Internal error handling request: %v", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
