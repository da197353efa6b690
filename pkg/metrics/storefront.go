package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records counters for the commerce surface.
type StorefrontMetrics struct {
	checkouts        *prometheus.CounterVec
	uploads          *prometheus.CounterVec
	catalogFallbacks *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_total",
		Help: "WhatsApp checkout links generated, labelled by outcome.",
	}, []string{"outcome"})
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upload_total",
		Help: "Design uploads, labelled by storage backend.",
	}, []string{"backend"})
	catalogFallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_fallback_total",
		Help: "Catalog queries that fell back to a degraded path.",
	}, []string{"reason"})
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	reg.MustRegister(checkouts, uploads, catalogFallbacks, requestDuration)
	return &StorefrontMetrics{
		checkouts:        checkouts,
		uploads:          uploads,
		catalogFallbacks: catalogFallbacks,
		requestDuration:  requestDuration,
	}
}

// IncCheckout increments the checkout counter for the given outcome.
func (m *StorefrontMetrics) IncCheckout(outcome string) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncUpload increments the upload counter for the backend that served it.
func (m *StorefrontMetrics) IncUpload(backend string) {
	if m == nil || m.uploads == nil {
		return
	}
	m.uploads.WithLabelValues(normalizeLabel(backend)).Inc()
}

// IncCatalogFallback increments the fallback counter for the named reason.
func (m *StorefrontMetrics) IncCatalogFallback(reason string) {
	if m == nil || m.catalogFallbacks == nil {
		return
	}
	m.catalogFallbacks.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObserveRequest records the duration for a routed request.
func (m *StorefrontMetrics) ObserveRequest(route, method string, duration time.Duration) {
	if m == nil || m.requestDuration == nil {
		return
	}
	m.requestDuration.WithLabelValues(normalizeLabel(route), normalizeLabel(method)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
