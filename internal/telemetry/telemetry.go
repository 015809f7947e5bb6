// Package telemetry exposes Prometheus metrics for scoring runs and the HTTP
// surface.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "negkw"

// Run outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeUserError = "user_error"
	OutcomeFailure   = "failure"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	// Run metrics
	RunsTotal       *prometheus.CounterVec
	TermsScored     prometheus.Counter
	TermsFlagged    prometheus.Counter
	ConfidenceTotal *prometheus.CounterVec
	RunDuration     prometheus.Histogram

	// HTTP metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPActiveRequests  prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New registers all collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{gatherer: reg}
	initRunMetrics(m, factory)
	initHTTPMetrics(m, factory)
	return m
}

func initRunMetrics(m *Metrics, factory promauto.Factory) {
	m.RunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Scoring runs by outcome",
	}, []string{"outcome"})

	m.TermsScored = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "terms_scored_total",
		Help:      "Search terms scored",
	})

	m.TermsFlagged = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "terms_flagged_total",
		Help:      "Search terms flagged as negative keywords",
	})

	m.ConfidenceTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "confidence_total",
		Help:      "Scored search terms by confidence label",
	}, []string{"confidence"})

	m.RunDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Time to parse, score and encode one report",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})
}

func initHTTPMetrics(m *Metrics, factory promauto.Factory) {
	m.HTTPRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	m.HTTPRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	m.HTTPActiveRequests = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_active_requests",
		Help:      "Requests currently being served",
	})
}

// RunSummary is what a finished run reports.
type RunSummary struct {
	Outcome    string
	Scored     int
	Flagged    int
	Confidence map[string]int
	Duration   time.Duration
}

// RecordRun updates run metrics. A nil receiver is a no-op.
func (m *Metrics) RecordRun(s RunSummary) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(s.Outcome).Inc()
	m.RunDuration.Observe(s.Duration.Seconds())
	if s.Outcome != OutcomeSuccess {
		return
	}
	m.TermsScored.Add(float64(s.Scored))
	m.TermsFlagged.Add(float64(s.Flagged))
	for label, n := range s.Confidence {
		m.ConfidenceTotal.WithLabelValues(label).Add(float64(n))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records request count, latency and in-flight requests. The
// route label is the matched gin pattern so path parameters do not explode
// cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		m.HTTPActiveRequests.Inc()
		defer m.HTTPActiveRequests.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
