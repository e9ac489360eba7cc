package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mahinrabby10101/farm-backend/internal/domain/entity"
	"github.com/mahinrabby10101/farm-backend/internal/platform/logger"
	"github.com/mahinrabby10101/farm-backend/internal/service"
)

// InterestHandler serves the interest lifecycle surface.
type InterestHandler struct {
	interests service.InterestService
	log       logger.Logger
}

func NewInterestHandler(interests service.InterestService, log logger.Logger) *InterestHandler {
	return &InterestHandler{interests: interests, log: log}
}

func (h *InterestHandler) HandleSubmitInterest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserEmail string `json:"userEmail"`
		UserName  string `json:"userName"`
		Quantity  int    `json:"quantity"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.log, fmt.Errorf("%w: invalid request body", entity.ErrInvalidInput))
		return
	}

	interest, err := h.interests.SubmitInterest(r.Context(), service.SubmitInterestInput{
		CropID:    chi.URLParam(r, "id"),
		UserEmail: req.UserEmail,
		UserName:  req.UserName,
		Quantity:  req.Quantity,
		Message:   req.Message,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, interest)
}

func (h *InterestHandler) HandleUpdateInterestStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status     string `json:"status"`
		OwnerEmail string `json:"ownerEmail"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.log, fmt.Errorf("%w: invalid request body", entity.ErrInvalidInput))
		return
	}

	err := h.interests.UpdateInterestStatus(r.Context(), service.UpdateInterestStatusInput{
		CropID:         chi.URLParam(r, "id"),
		InterestID:     chi.URLParam(r, "interestId"),
		Status:         req.Status,
		RequesterEmail: req.OwnerEmail,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
