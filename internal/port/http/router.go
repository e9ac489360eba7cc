package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mahinrabby10101/farm-backend/internal/platform/logger"
	"github.com/mahinrabby10101/farm-backend/internal/platform/metrics"
)

// NewRouter wires the full HTTP surface onto a chi mux.
func NewRouter(cropH *CropHandler, interestH *InterestHandler, log logger.Logger, m *metrics.Manager) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(RequestLogging(log, m))

	mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})

	mux.Get("/crops", cropH.HandleListCrops)
	mux.Post("/crops", cropH.HandleCreateCrops)
	mux.Get("/crops/{id}", cropH.HandleGetCrop)
	mux.Put("/crops/{id}", cropH.HandleReplaceCrop)
	mux.Patch("/crops/{id}", cropH.HandleMergeCrop)
	mux.Delete("/crops/{id}", cropH.HandleDeleteCrop)

	mux.Post("/crops/{id}/interests", interestH.HandleSubmitInterest)
	mux.Patch("/crops/{id}/interests/{interestId}", interestH.HandleUpdateInterestStatus)

	mux.Get("/my-crops", cropH.HandleListMyCrops)
	mux.Get("/my-interests", cropH.HandleListMyInterests)

	return mux
}
