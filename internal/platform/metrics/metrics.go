// Package metrics exposes prometheus instruments for the report pipeline and
// the HTTP server. Each Metrics owns its registry so tests can build as many
// as they like.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/ifm_report_app/internal/core/domain"
	portssvc "github.com/SscSPs/ifm_report_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ifm"

// Metrics holds all instruments. A nil *Metrics is a valid no-op.
type Metrics struct {
	registry *prometheus.Registry

	reportsTotal    *prometheus.CounterVec
	reportDuration  prometheus.Histogram
	rowsProcessed   *prometheus.CounterVec
	unmatchedRefs   *prometheus.CounterVec
	zeroNetGroups   prometheus.Counter
	httpRequestTime *prometheus.HistogramVec
}

// New creates and registers every instrument on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		reportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reports_total",
				Help:      "Report runs by outcome.",
			},
			[]string{"result", "stage"}, // success | failed; stage is empty on success
		),
		reportDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "report_duration_seconds",
				Help:      "Wall time of a successful report run, reading included.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		rowsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_processed_total",
				Help:      "Rows seen per pipeline stage.",
			},
			[]string{"stage"}, // extract | historical | reported | skipped
		),
		unmatchedRefs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unmatched_reference_rows_total",
				Help:      "Enriched rows left without a reference match, per lookup table.",
			},
			[]string{"table"}, // vendor | receiving | area
		),
		zeroNetGroups: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "zero_net_groups_total",
				Help:      "Invoice groups dropped because the base amount netted to zero.",
			},
		),
		httpRequestTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route and status.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	registry.MustRegister(
		m.reportsTotal,
		m.reportDuration,
		m.rowsProcessed,
		m.unmatchedRefs,
		m.zeroNetGroups,
		m.httpRequestTime,
	)
	return m
}

// Ensure Metrics can observe report runs
var _ portssvc.ReportObserver = (*Metrics)(nil)

// ObserveReport records a successful run.
func (m *Metrics) ObserveReport(report *domain.Report, elapsed time.Duration) {
	if m == nil || report == nil {
		return
	}
	m.reportsTotal.WithLabelValues("success", "").Inc()
	m.reportDuration.Observe(elapsed.Seconds())

	m.rowsProcessed.WithLabelValues("extract").Add(float64(report.Enrichment.InputRows))
	m.rowsProcessed.WithLabelValues("historical").Add(float64(report.Aggregation.HistoricalRows))
	m.rowsProcessed.WithLabelValues("reported").Add(float64(len(report.Rows)))
	m.rowsProcessed.WithLabelValues("skipped").Add(float64(report.Aggregation.SkippedMissingKey))

	m.unmatchedRefs.WithLabelValues("vendor").Add(float64(report.Enrichment.UnmatchedVendors))
	m.unmatchedRefs.WithLabelValues("receiving").Add(float64(report.Enrichment.UnmatchedReceiving))
	m.unmatchedRefs.WithLabelValues("area").Add(float64(report.Enrichment.UnmatchedAreas))

	m.zeroNetGroups.Add(float64(report.Aggregation.ZeroNetGroups))
}

// ObserveFailure records a failed run at stage.
func (m *Metrics) ObserveFailure(stage string) {
	if m == nil {
		return
	}
	m.reportsTotal.WithLabelValues("failed", stage).Inc()
}

// GinMiddleware times every request by its route template.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestTime.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
