package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mahinrabby10101/farm-backend/internal/platform/logger"
)

// Manager holds the service's Prometheus metrics.
type Manager struct {
	Registry                *prometheus.Registry
	InterestsSubmittedTotal prometheus.Counter
	InterestsAcceptedTotal  prometheus.Counter
	InterestsRejectedTotal  prometheus.Counter
	InterestConflictsTotal  prometheus.Counter
	HTTPRequestLatency      *prometheus.HistogramVec
}

func NewManager(serviceName string) *Manager {
	registry := prometheus.NewRegistry()

	interestsSubmittedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "interests_submitted_total",
		Help:      "Total number of interests submitted successfully.",
	})
	interestsAcceptedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "interests_accepted_total",
		Help:      "Total number of interests accepted by owners.",
	})
	interestsRejectedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "interests_rejected_total",
		Help:      "Total number of interests rejected by owners.",
	})
	interestConflictsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "interest_conflicts_total",
		Help:      "Total number of interest operations rejected as conflicts.",
	})
	httpRequestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	registry.MustRegister(
		interestsSubmittedTotal,
		interestsAcceptedTotal,
		interestsRejectedTotal,
		interestConflictsTotal,
		httpRequestLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:                registry,
		InterestsSubmittedTotal: interestsSubmittedTotal,
		InterestsAcceptedTotal:  interestsAcceptedTotal,
		InterestsRejectedTotal:  interestsRejectedTotal,
		InterestConflictsTotal:  interestConflictsTotal,
		HTTPRequestLatency:      httpRequestLatency,
	}
}

// StartServer exposes the registry on its own listener. Blocks, so callers
// run it in a goroutine.
func StartServer(port string, log logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		log.Info("Prometheus metrics port not configured, metrics server will not start")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	log.Infof("Prometheus metrics server starting on port %s", port)
	server := &http.Server{Addr: ":" + port, Handler: mux}
	return server.ListenAndServe()
}
