package server

import (
	"strconv"

	"github.com/jonathan/a11y-checker/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts HTTP requests.
	// Labels: route (matched pattern or "unmatched"), status
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "a11y",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by route and status",
	}, []string{"route", "status"})

	// requestDuration measures HTTP request latency.
	// Labels: route
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "a11y",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	// rateLimitedTotal counts requests rejected by the rate limiter.
	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "a11y",
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Total requests rejected by the rate limiter",
	})

	// analysesTotal counts completed analyses.
	analysesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "a11y",
		Subsystem: "analysis",
		Name:      "completed_total",
		Help:      "Total completed accessibility analyses",
	})

	// violationsTotal counts violations found.
	// Labels: category
	violationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "a11y",
		Subsystem: "analysis",
		Name:      "violations_total",
		Help:      "Total violations found by rule category",
	}, []string{"category"})

	// complianceScore tracks the distribution of compliance scores.
	complianceScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "a11y",
		Subsystem: "analysis",
		Name:      "compliance_score",
		Help:      "Distribution of compliance scores",
		Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 95, 100},
	})

	// analysisDuration measures engine time per analysis.
	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "a11y",
		Subsystem: "analysis",
		Name:      "duration_seconds",
		Help:      "Accessibility analysis latency in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})

	// inputBytes measures the size of analyzed markup.
	inputBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "a11y",
		Subsystem: "analysis",
		Name:      "input_bytes",
		Help:      "Size of analyzed markup in bytes",
		Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
	})
)

func recordRequest(route string, status int, seconds float64) {
	requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(route).Observe(seconds)
}

func recordAnalysis(report *types.Report, size int, seconds float64) {
	analysesTotal.Inc()
	complianceScore.Observe(float64(report.ComplianceScore))
	analysisDuration.Observe(seconds)
	inputBytes.Observe(float64(size))
	for category, group := range report.Issues {
		violationsTotal.WithLabelValues(category).Add(float64(len(group.Details)))
	}
}
