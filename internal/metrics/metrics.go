// Package metrics provides Prometheus metrics for the insight engine.
//
// Each Metrics owns its own registry. A nil *Metrics is valid and records
// nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus metrics for the insight engine.
type Metrics struct {
	registry *prometheus.Registry

	// Result cache
	CacheHitsTotal          prometheus.Counter
	CacheMissesTotal        prometheus.Counter
	CacheEvictionsTotal     *prometheus.CounterVec
	CacheInvalidationsTotal prometheus.Counter
	CacheSize               prometheus.Gauge

	// Report building
	ReportBuildsTotal   *prometheus.CounterVec
	ReportBuildDuration *prometheus.HistogramVec
	FindingsTotal       prometheus.Counter

	// Paging
	PagesLoadedTotal prometheus.Counter
}

// New creates a registry and registers every metric on it.
//
// Metrics:
//   - patternlog_cache_hits_total - Count of report cache hits
//   - patternlog_cache_misses_total - Count of report cache misses
//   - patternlog_cache_evictions_total{reason} - expired, capacity, corrupt
//   - patternlog_cache_invalidations_total - Entries dropped after writes
//   - patternlog_cache_size - Current number of cached reports
//   - patternlog_report_builds_total{granularity,result} - Report builds
//   - patternlog_report_build_duration_seconds{granularity} - Build latency
//   - patternlog_findings_total - Correlation findings emitted
//   - patternlog_pages_loaded_total - Entry pages served
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		CacheHitsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "patternlog_cache_hits_total",
			Help: "Total number of report cache hits",
		}),
		CacheMissesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "patternlog_cache_misses_total",
			Help: "Total number of report cache misses",
		}),
		CacheEvictionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patternlog_cache_evictions_total",
				Help: "Total number of report cache evictions",
			},
			[]string{"reason"}, // "expired", "capacity", "corrupt"
		),
		CacheInvalidationsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "patternlog_cache_invalidations_total",
			Help: "Total number of cached reports dropped by write invalidation",
		}),
		CacheSize: f.NewGauge(prometheus.GaugeOpts{
			Name: "patternlog_cache_size",
			Help: "Current number of cached reports",
		}),

		ReportBuildsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patternlog_report_builds_total",
				Help: "Total number of reports built from the datastore",
			},
			[]string{"granularity", "result"}, // result: "ok", "error", "canceled"
		),
		ReportBuildDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "patternlog_report_build_duration_seconds",
				Help:    "Duration of report builds in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"granularity"},
		),
		FindingsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "patternlog_findings_total",
			Help: "Total number of correlation findings emitted",
		}),

		PagesLoadedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "patternlog_pages_loaded_total",
			Help: "Total number of entry pages loaded",
		}),
	}
}

// Registry returns the registry the metrics live on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordCacheHit records a cache hit.
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss.
func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMissesTotal.Inc()
}

// RecordEviction records an entry leaving the cache for reason.
func (m *Metrics) RecordEviction(reason string) {
	if m == nil {
		return
	}
	m.CacheEvictionsTotal.WithLabelValues(reason).Inc()
}

// RecordInvalidation records n entries dropped by a write.
func (m *Metrics) RecordInvalidation(n int) {
	if m == nil || n == 0 {
		return
	}
	m.CacheInvalidationsTotal.Add(float64(n))
}

// SetCacheSize updates the current cache size gauge.
func (m *Metrics) SetCacheSize(size int) {
	if m == nil {
		return
	}
	m.CacheSize.Set(float64(size))
}

// RecordReportBuild records one report build and its duration.
func (m *Metrics) RecordReportBuild(granularity, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.ReportBuildsTotal.WithLabelValues(granularity, result).Inc()
	m.ReportBuildDuration.WithLabelValues(granularity).Observe(d.Seconds())
}

// AddFindings records n emitted correlation findings.
func (m *Metrics) AddFindings(n int) {
	if m == nil || n == 0 {
		return
	}
	m.FindingsTotal.Add(float64(n))
}

// RecordPageLoaded records one entry page served.
func (m *Metrics) RecordPageLoaded() {
	if m == nil {
		return
	}
	m.PagesLoadedTotal.Inc()
}
