package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mahinrabby10101/farm-backend/internal/domain/entity"
	"github.com/mahinrabby10101/farm-backend/internal/platform/logger"
	"github.com/mahinrabby10101/farm-backend/internal/repository"
	"github.com/mahinrabby10101/farm-backend/internal/service"
)

// CropHandler serves the catalog CRUD surface and the owner/buyer
// projections.
type CropHandler struct {
	catalog service.CatalogService
	queries service.QueryService
	log     logger.Logger
}

func NewCropHandler(catalog service.CatalogService, queries service.QueryService, log logger.Logger) *CropHandler {
	return &CropHandler{catalog: catalog, queries: queries, log: log}
}

func (h *CropHandler) HandleListCrops(w http.ResponseWriter, r *http.Request) {
	cropType := r.URL.Query().Get("type")

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			respondError(w, h.log, fmt.Errorf("%w: limit must be a non-negative integer", entity.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	crops, err := h.catalog.ListCrops(r.Context(), cropType, limit)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	if crops == nil {
		crops = []entity.Crop{}
	}
	respondJSON(w, http.StatusOK, crops)
}

func (h *CropHandler) HandleGetCrop(w http.ResponseWriter, r *http.Request) {
	crop, err := h.catalog.GetCrop(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, crop)
}

func (h *CropHandler) HandleCreateCrops(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respondError(w, h.log, fmt.Errorf("%w: invalid request body", entity.ErrInvalidInput))
		return
	}

	// The body may be a single crop document or an array of them.
	var crops []entity.Crop
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &crops); err != nil {
			respondError(w, h.log, fmt.Errorf("%w: invalid crop array", entity.ErrInvalidInput))
			return
		}
	} else {
		var crop entity.Crop
		if err := json.Unmarshal(raw, &crop); err != nil {
			respondError(w, h.log, fmt.Errorf("%w: invalid crop document", entity.ErrInvalidInput))
			return
		}
		crops = []entity.Crop{crop}
	}

	ids, err := h.catalog.CreateCrops(r.Context(), crops)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"insertedIds": ids})
}

func (h *CropHandler) HandleReplaceCrop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type        string  `json:"type"`
		Name        string  `json:"name"`
		Quantity    int     `json:"quantity"`
		Unit        string  `json:"unit"`
		PricePerKg  float64 `json:"pricePerKg"`
		Location    string  `json:"location"`
		Description string  `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.log, fmt.Errorf("%w: invalid request body", entity.ErrInvalidInput))
		return
	}

	params := repository.ReplaceCropParams{
		Type:        req.Type,
		Name:        req.Name,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		PricePerKg:  req.PricePerKg,
		Location:    req.Location,
		Description: req.Description,
	}

	if err := h.catalog.ReplaceCrop(r.Context(), chi.URLParam(r, "id"), params); err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *CropHandler) HandleMergeCrop(w http.ResponseWriter, r *http.Request) {
	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondError(w, h.log, fmt.Errorf("%w: invalid request body", entity.ErrInvalidInput))
		return
	}

	modified, err := h.catalog.MergeCrop(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "modifiedCount": modified})
}

func (h *CropHandler) HandleDeleteCrop(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCrop(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *CropHandler) HandleListMyCrops(w http.ResponseWriter, r *http.Request) {
	crops, err := h.queries.ListMyCrops(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	if crops == nil {
		crops = []entity.Crop{}
	}
	respondJSON(w, http.StatusOK, crops)
}

func (h *CropHandler) HandleListMyInterests(w http.ResponseWriter, r *http.Request) {
	projections, err := h.queries.ListMyInterests(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	if projections == nil {
		projections = []entity.InterestProjection{}
	}
	respondJSON(w, http.StatusOK, projections)
}
