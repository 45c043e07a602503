package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"rwstats/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncVisits(result string)
	ObserveStorageScanDuration(duration time.Duration)
	SetStorageUsedBytes(bytes int64)
	ObservePersistenceDuration(duration time.Duration)
}

// Visit outcome labels for IncVisits.
const (
	VisitCounted = "counted"
	VisitRepeat  = "repeat"
	VisitFailed  = "failed"
)

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	visitsTotal         *prometheus.CounterVec
	storageScanDuration prometheus.Histogram
	storageUsedBytes    prometheus.Gauge
	persistenceDuration prometheus.Histogram
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

func (m *MetricsProvider) IncVisits(result string) {
	m.visitsTotal.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) ObserveStorageScanDuration(duration time.Duration) {
	m.storageScanDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetStorageUsedBytes(bytes int64) {
	m.storageUsedBytes.Set(float64(bytes))
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
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
			Name: "rwstats_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rwstats_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rwstats_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rwstats_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		visitsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rwstats_visits_total",
			Help: "Visit events by outcome (counted, repeat, failed)",
		}, []string{"result"}),

		storageScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rwstats_storage_scan_duration_seconds",
			Help:    "Duration of full object-store usage scans in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		storageUsedBytes: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "rwstats_storage_used_bytes",
			Help: "Object-store usage observed by the latest scan",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rwstats_persistence_duration_seconds",
			Help:    "Duration of record snapshot persistence in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncVisits(_ string)                               {}
func (n *noopMetrics) ObserveStorageScanDuration(_ time.Duration)       {}
func (n *noopMetrics) SetStorageUsedBytes(_ int64)                      {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
