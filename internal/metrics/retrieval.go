package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bughunter",
			Name:      "search_requests_total",
			Help:      "Total number of document index queries",
		},
		[]string{"driver", "status"},
	)

	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bughunter",
			Name:      "search_request_duration_seconds",
			Help:      "Document index query duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"driver"},
	)

	SearchDocumentsFound = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bughunter",
			Name:      "search_documents_found",
			Help:      "Documents returned per index query",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"driver"},
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bughunter",
			Name:      "search_cache_total",
			Help:      "Search result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	AnalysisFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bughunter",
			Name:      "analysis_fallbacks_total",
			Help:      "Model responses that degraded to a fallback record",
		},
		[]string{"kind"}, // "parse" / "patterns"
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers Prometheus retrieval metrics. Must be
// called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchRequestDuration)
	prometheus.MustRegister(SearchDocumentsFound)
	prometheus.MustRegister(SearchCacheTotal)
	prometheus.MustRegister(AnalysisFallbacksTotal)
	retrievalMetricsRegistered = true
}
