// Package metrics holds the Prometheus collectors for the prediction service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "stockpredictor"

// Metrics groups the service collectors. Create once per registry.
type Metrics struct {
	Registry *prometheus.Registry

	PredictionsTotal *prometheus.CounterVec
	PredictDuration  prometheus.Histogram
	LastPrediction   prometheus.Gauge
	RefreshTotal     *prometheus.CounterVec
	RefreshLastUnix  prometheus.Gauge
}

// New registers all collectors on a fresh registry, plus the Go and process
// collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		PredictionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "predictions_total",
				Help:      "Prediction requests by outcome",
			},
			[]string{"outcome"},
		),
		PredictDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "predict_duration_seconds",
				Help:      "Time spent loading, shaping and running the model",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
			},
		),
		LastPrediction: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_prediction",
				Help:      "Most recent successful prediction value",
			},
		),
		RefreshTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "data_refresh_total",
				Help:      "CSV refresh runs by status",
			},
			[]string{"status"},
		),
		RefreshLastUnix: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "data_refresh_last_success_unixtime",
				Help:      "Unix time of the last successful CSV refresh",
			},
		),
	}
}
