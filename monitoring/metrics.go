package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

var (
	RecommendationsServed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total intervention rankings served",
		},
	)

	RecommendationCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_cache_hits_total",
			Help: "Rankings answered from the Redis cache",
		},
	)

	OutcomeTableSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "outcome_table_rows",
			Help: "Rows in the active intervention outcome table",
		},
	)

	OutcomeImportsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "outcome_imports_total",
			Help: "Completed bulk outcome imports",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(RecommendationsServed)
	prometheus.MustRegister(RecommendationCacheHits)
	prometheus.MustRegister(OutcomeTableSize)
	prometheus.MustRegister(OutcomeImportsTotal)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
