package metrics

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "stokdash_"

// Result labels for ObserveUpload.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	uploadsTotal  *prometheus.CounterVec
	uploadLatency *prometheus.HistogramVec
	rowsProcessed prometheus.Counter
	parseErrors   *prometheus.CounterVec
)

// Init registers the dashboard metrics, plus a gauge over the session report
// cache when one is supplied. Safe to leave uncalled; the helpers below are
// nil-guarded so tests run without a registry.
func Init(reportCache *cache.Cache) {
	registerOnce.Do(func() {
		uploadsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "uploads_total",
				Help: "Total upload requests by result",
			},
			[]string{"result"},
		)
		uploadLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "upload_duration_seconds",
				Help:    "Upload request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		rowsProcessed = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "rows_processed_total",
				Help: "Total sales rows cleaned across uploads",
			},
		)
		parseErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "parse_errors_total",
				Help: "Total parse failures by reason",
			},
			[]string{"reason"},
		)

		collectors := []prometheus.Collector{uploadsTotal, uploadLatency, rowsProcessed, parseErrors}
		if reportCache != nil {
			collectors = append(collectors, prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: metricPrefix + "cached_reports",
					Help: "Reports currently held in the session cache",
				},
				func() float64 { return float64(reportCache.ItemCount()) },
			))
		}
		prometheus.MustRegister(collectors...)
	})
}

// ObserveUpload records one upload request's result and duration.
func ObserveUpload(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if uploadsTotal != nil {
		uploadsTotal.WithLabelValues(result).Inc()
	}
	if uploadLatency != nil {
		uploadLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddRowsProcessed counts rows that made it through the pipeline.
func AddRowsProcessed(count int) {
	if count <= 0 {
		return
	}
	if rowsProcessed != nil {
		rowsProcessed.Add(float64(count))
	}
}

// IncParseError increments the parse failure counter.
func IncParseError(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	if parseErrors != nil {
		parseErrors.WithLabelValues(reason).Inc()
	}
}
