package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal     *prometheus.CounterVec
	tradesTotal   *prometheus.CounterVec
	rejectedTotal *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	winRate       *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backcast_runs_total",
				Help: "Total number of completed backtest runs",
			},
			[]string{"symbol", "preset"},
		),
		tradesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backcast_trades_total",
				Help: "Total number of simulated trades",
			},
			[]string{"symbol"},
		),
		rejectedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backcast_rejected_signals_total",
				Help: "Signals that found a direction but failed the score gate",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backcast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		winRate: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "backcast_last_win_rate",
				Help: "Win rate of the most recent run per symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backcast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordRun(symbol, preset string) {
	r.runsTotal.WithLabelValues(symbol, preset).Inc()
}

func (r *Recorder) RecordTrades(symbol string, n int) {
	r.tradesTotal.WithLabelValues(symbol).Add(float64(n))
}

func (r *Recorder) RecordRejected(symbol string, n int) {
	r.rejectedTotal.WithLabelValues(symbol).Add(float64(n))
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordWinRate(symbol string, pct float64) {
	r.winRate.WithLabelValues(symbol).Set(pct)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
