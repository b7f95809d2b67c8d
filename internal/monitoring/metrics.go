package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	scansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legend_scanner_scans_total",
			Help: "Total number of completed scan runs",
		},
		[]string{"symbol", "interval"},
	)

	scanDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "legend_scanner_scan_duration_seconds",
			Help:    "Distribution of scan run durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"symbol", "interval"},
	)

	legendCandlesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legend_scanner_legend_candles_total",
			Help: "Total number of legend candles detected",
		},
		[]string{"symbol", "interval"},
	)

	entriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legend_scanner_entries_total",
			Help: "Total number of simulated entries triggered",
		},
		[]string{"symbol", "side"},
	)

	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legend_scanner_errors_total",
			Help: "Total number of per-run errors",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(scansTotal)
	prometheus.MustRegister(scanDuration)
	prometheus.MustRegister(legendCandlesTotal)
	prometheus.MustRegister(entriesTotal)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler serves the Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordScan records a completed scan run
func RecordScan(symbol, interval string, duration time.Duration) {
	scansTotal.WithLabelValues(symbol, interval).Inc()
	scanDuration.WithLabelValues(symbol, interval).Observe(duration.Seconds())
}

// RecordLegendCandles adds the legend candles found in one run
func RecordLegendCandles(symbol, interval string, count int) {
	legendCandlesTotal.WithLabelValues(symbol, interval).Add(float64(count))
}

// RecordEntry records a simulated entry
func RecordEntry(symbol, side string) {
	entriesTotal.WithLabelValues(symbol, side).Inc()
}

// RecordScanError records a per-run error
func RecordScanError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
