package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mahinrabby10101/farm-backend/internal/platform/logger"
	"github.com/mahinrabby10101/farm-backend/internal/platform/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogging logs every request with its outcome and duration, and feeds
// the latency histogram when a metrics manager is wired.
func RequestLogging(log logger.Logger, m *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			duration := time.Since(start)
			if m != nil {
				// The route pattern keeps the label set bounded; the raw path
				// would mint a new series per crop id.
				route := "unmatched"
				if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
					route = rctx.RoutePattern()
				}
				m.HTTPRequestLatency.WithLabelValues(r.Method, route).Observe(duration.Seconds())
			}
			log.Infof("%s %s -> %d (%s)", r.Method, r.URL.Path, recorder.status, duration)
		})
	}
}
