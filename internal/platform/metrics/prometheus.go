package metrics

import (
	"net/http"

	"github.com/Jayeshfarkunde27/To-let/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager holds the custom Prometheus metrics for the service.
type MetricsManager struct {
	Registry                *prometheus.Registry
	PropertiesCreatedTotal  prometheus.Counter
	UsersRegisteredTotal    prometheus.Counter
	AISearchesTotal         prometheus.Counter
	AISearchFallbacksTotal  prometheus.Counter
	PhotoUploadsTotal       prometheus.Counter
	PhotoUploadFailuresTotal prometheus.Counter
	APIErrorsTotal          *prometheus.CounterVec
	APILatency              *prometheus.HistogramVec
}

// NewMetricsManager initializes and registers the service metrics on a custom
// registry.
func NewMetricsManager(serviceName string) *MetricsManager {
	registry := prometheus.NewRegistry()

	propertiesCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "properties_created_total",
		Help:      "Total number of property listings created.",
	})
	usersRegisteredTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "users_registered_total",
		Help:      "Total number of user registrations.",
	})
	aiSearchesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "ai_searches_total",
		Help:      "Total number of AI assistant search calls.",
	})
	aiSearchFallbacksTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "ai_search_fallbacks_total",
		Help:      "Total number of AI searches answered with the fallback reply.",
	})
	photoUploadsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "photo_uploads_total",
		Help:      "Total number of property photo uploads.",
	})
	photoUploadFailuresTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "photo_upload_failures_total",
		Help:      "Total number of photo uploads that fell back to the placeholder image.",
	})
	apiErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "api_errors_total",
		Help:      "Total number of API errors by route.",
	}, []string{"route", "status"})
	apiLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "api_request_latency_seconds",
		Help:      "Latency of API requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	registry.MustRegister(
		propertiesCreatedTotal,
		usersRegisteredTotal,
		aiSearchesTotal,
		aiSearchFallbacksTotal,
		photoUploadsTotal,
		photoUploadFailuresTotal,
		apiErrorsTotal,
		apiLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:                 registry,
		PropertiesCreatedTotal:   propertiesCreatedTotal,
		UsersRegisteredTotal:     usersRegisteredTotal,
		AISearchesTotal:          aiSearchesTotal,
		AISearchFallbacksTotal:   aiSearchFallbacksTotal,
		PhotoUploadsTotal:        photoUploadsTotal,
		PhotoUploadFailuresTotal: photoUploadFailuresTotal,
		APIErrorsTotal:           apiErrorsTotal,
		APILatency:               apiLatency,
	}
}

// StartMetricsServer exposes the registry on :port/metrics. It blocks, so run
// it in its own goroutine.
func StartMetricsServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}
