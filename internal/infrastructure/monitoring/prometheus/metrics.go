// Package prometheus defines the service's metric instruments.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lexml"

// Metrics bundles every instrument the service emits.  Construct once with
// NewMetrics and inject where needed.
type Metrics struct {
	// AnalysesTotal counts finished analyses by final classification.
	AnalysesTotal *prometheus.CounterVec

	// AnalysisDuration observes end-to-end analysis latency.
	AnalysisDuration prometheus.Histogram

	// RiskScores observes the distribution of final risk scores.
	RiskScores prometheus.Histogram

	// ClassifierFailures counts degraded analyses by failure kind
	// ("unavailable", "timeout", "bad_output").
	ClassifierFailures *prometheus.CounterVec

	// CacheHits and CacheMisses count report-cache lookups.
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// HTTPRequests counts API requests by method, route, and status class.
	HTTPRequests *prometheus.CounterVec

	// HTTPDuration observes API request latency by route.
	HTTPDuration *prometheus.HistogramVec
}

// NewMetrics builds and registers all instruments on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Finished contract analyses by final classification.",
		}, []string{"classification"}),

		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end analysis latency.",
			Buckets:   prometheus.DefBuckets,
		}),

		RiskScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "risk_score",
			Help:      "Distribution of final risk scores.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),

		ClassifierFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifier_failures_total",
			Help:      "Analyses that degraded to rule-based only, by failure kind.",
		}, []string{"kind"}),

		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_cache_hits_total",
			Help:      "Report cache hits.",
		}),

		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_cache_misses_total",
			Help:      "Report cache misses.",
		}),

		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by method, route, and status.",
		}, []string{"method", "route", "status"}),

		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.AnalysesTotal,
		m.AnalysisDuration,
		m.RiskScores,
		m.ClassifierFailures,
		m.CacheHits,
		m.CacheMisses,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// ObserveAnalysis records one finished analysis.
func (m *Metrics) ObserveAnalysis(classification string, score int, elapsed time.Duration) {
	m.AnalysesTotal.WithLabelValues(classification).Inc()
	m.AnalysisDuration.Observe(elapsed.Seconds())
	m.RiskScores.Observe(float64(score))
}
