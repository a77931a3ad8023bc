package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	cyclesTotal   *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	signalsTotal  prometheus.Gauge
	actionable    prometheus.Gauge
	fetchLatency  *prometheus.HistogramVec
	lastPrice     *prometheus.GaugeVec
	errorsTotal   *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cyclesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "entryfeed_cycles_total",
				Help: "Total worker cycles by outcome",
			},
			[]string{"outcome"},
		),
		cycleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "entryfeed_cycle_duration_seconds",
				Help:    "Duration of one full worker cycle in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		signalsTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "entryfeed_signals_total",
				Help: "Rows in the last computed feed",
			},
		),
		actionable: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "entryfeed_signals_actionable",
				Help: "Actionable rows in the last computed feed",
			},
		),
		fetchLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "entryfeed_price_fetch_duration_seconds",
				Help:    "Duration of price fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "entryfeed_last_price",
				Help: "Last observed price for an actionable pair",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "entryfeed_errors_total",
				Help: "Total errors by kind",
			},
			[]string{"type"},
		),
	}
}

// RecordCycle records one completed cycle with its outcome.
func (r *Recorder) RecordCycle(outcome string) {
	r.cyclesTotal.WithLabelValues(outcome).Inc()
}

// RecordCycleDuration records how long a cycle took.
func (r *Recorder) RecordCycleDuration(seconds float64) {
	r.cycleDuration.Observe(seconds)
}

// RecordSignals records the size of the last computed feed.
func (r *Recorder) RecordSignals(total, actionable int) {
	r.signalsTotal.Set(float64(total))
	r.actionable.Set(float64(actionable))
}

// RecordFetchLatency records price fetch latency per source.
func (r *Recorder) RecordFetchLatency(source string, seconds float64) {
	r.fetchLatency.WithLabelValues(source).Observe(seconds)
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
