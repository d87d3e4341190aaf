package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	EngineLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "backcast",
			Subsystem: "engine",
			Name:      "latency_seconds",
			Help:      "Latency of engine stages per run",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	EngineErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "backcast",
			Subsystem: "engine",
			Name:      "errors_total",
			Help:      "Errors by engine stage",
		},
		[]string{"stage"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(EngineLatency, EngineErrors)
	})
}
