package metrics

import "github.com/prometheus/client_golang/prometheus"

// Media service Prometheus metrics.
var (
	MediaRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediadex",
			Name:      "media_requests_total",
			Help:      "Total number of media service calls",
		},
		[]string{"operation", "status"},
	)

	MediaRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mediadex",
			Name:      "media_request_duration_seconds",
			Help:      "Media service call duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	MediaErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediadex",
			Name:      "media_errors_total",
			Help:      "Total media service errors",
		},
		[]string{"operation", "error_type"},
	)

	MediaDroppedHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediadex",
			Name:      "media_dropped_hits_total",
			Help:      "Raw hits dropped during normalization",
		},
		[]string{"reason"},
	)

	MediaCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediadex",
			Name:      "media_cache_total",
			Help:      "Media cache hits and misses",
		},
		[]string{"operation", "result"}, // result: "hit" / "miss"
	)
)

var mediaMetricsRegistered bool

// RegisterMediaMetrics registers Prometheus media metrics. Must be called once from main.
func RegisterMediaMetrics() {
	if mediaMetricsRegistered {
		return
	}
	prometheus.MustRegister(MediaRequestsTotal)
	prometheus.MustRegister(MediaRequestDuration)
	prometheus.MustRegister(MediaErrorsTotal)
	prometheus.MustRegister(MediaDroppedHitsTotal)
	prometheus.MustRegister(MediaCacheTotal)
	mediaMetricsRegistered = true
}
