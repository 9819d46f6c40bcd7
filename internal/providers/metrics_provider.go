package providers

import (
	"bikeprice/internal/structures"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncUpstreamRequests(kind, outcome string)
	ObserveUpstreamDuration(kind string, duration time.Duration)
	ObserveGenerationDuration(duration time.Duration)
	SetCitiesTotal(count int)
	SetRecordsTotal(kind string, count int)
	IncWarnings(kind string)
	SetSnapshotTimestamp(t time.Time)
}

type MetricsProvider struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	upstreamRequests   *prometheus.CounterVec
	upstreamDuration   *prometheus.HistogramVec
	generationDuration prometheus.Histogram
	citiesTotal        prometheus.Gauge
	recordsTotal       *prometheus.GaugeVec
	warningsTotal      *prometheus.CounterVec
	snapshotTimestamp  prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncUpstreamRequests(kind, outcome string) {
	m.upstreamRequests.WithLabelValues(kind, outcome).Inc()
}

func (m *MetricsProvider) ObserveUpstreamDuration(kind string, duration time.Duration) {
	m.upstreamDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (m *MetricsProvider) ObserveGenerationDuration(duration time.Duration) {
	m.generationDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetCitiesTotal(count int) {
	m.citiesTotal.Set(float64(count))
}

func (m *MetricsProvider) SetRecordsTotal(kind string, count int) {
	m.recordsTotal.WithLabelValues(kind).Set(float64(count))
}

func (m *MetricsProvider) IncWarnings(kind string) {
	m.warningsTotal.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) SetSnapshotTimestamp(t time.Time) {
	m.snapshotTimestamp.Set(float64(t.Unix()))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bikeprice_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bikeprice_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bikeprice_cache_hits_total",
			Help: "Total number of view cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bikeprice_cache_misses_total",
			Help: "Total number of view cache misses",
		}),

		upstreamRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bikeprice_upstream_requests_total",
			Help: "Upstream pricing API calls by kind and outcome",
		}, []string{"kind", "outcome"}),

		upstreamDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bikeprice_upstream_duration_seconds",
			Help:    "Upstream pricing API call duration in seconds, retries included",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),

		generationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bikeprice_generation_duration_seconds",
			Help:    "Duration of a full snapshot generation run",
			Buckets: []float64{1, 2, 5, 10, 30, 60, 120, 300},
		}),

		citiesTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "bikeprice_cities_total",
			Help: "Number of cities in the current snapshot",
		}),

		recordsTotal: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bikeprice_records_total",
			Help: "Normalized records in the current snapshot per pricing kind",
		}, []string{"kind"}),

		warningsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bikeprice_empty_kind_total",
			Help: "Cities that produced no records for a pricing kind",
		}, []string{"kind"}),

		snapshotTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "bikeprice_snapshot_timestamp_seconds",
			Help: "Unix time of the last successful snapshot generation",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncUpstreamRequests(_, _ string)                  {}
func (n *noopMetrics) ObserveUpstreamDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) ObserveGenerationDuration(_ time.Duration)        {}
func (n *noopMetrics) SetCitiesTotal(_ int)                             {}
func (n *noopMetrics) SetRecordsTotal(_ string, _ int)                  {}
func (n *noopMetrics) IncWarnings(_ string)                             {}
func (n *noopMetrics) SetSnapshotTimestamp(_ time.Time)                 {}

func NewNoopMetrics() MetricsProviderInterface {
	return &noopMetrics{}
}
