package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	predictions *prometheus.CounterVec
	latency     prometheus.Histogram
	reloads     *prometheus.CounterVec
	loadedAt    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healthrisk_predictions_total",
			Help: "Predictions served, by outcome kind (ok or an error kind)",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "healthrisk_prediction_duration_seconds",
			Help:    "Latency of the inference pipeline for one profile",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healthrisk_artifact_reloads_total",
			Help: "Artifact reload attempts, by result",
		}, []string{"result"}),
		loadedAt: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "healthrisk_artifacts_loaded_timestamp_seconds",
			Help: "Unix time the active artifact bundle was loaded",
		}),
	}
	reg.MustRegister(m.predictions, m.latency, m.reloads, m.loadedAt)
	return m
}

// ObservePrediction records one pipeline invocation.
func (m *Metrics) ObservePrediction(outcome string, d time.Duration) {
	m.predictions.WithLabelValues(outcome).Inc()
	m.latency.Observe(d.Seconds())
}

// ObserveReload records a reload attempt. loadedAt is ignored on failure.
func (m *Metrics) ObserveReload(err error, loadedAt time.Time) {
	if err != nil {
		m.reloads.WithLabelValues("error").Inc()
		return
	}
	m.reloads.WithLabelValues("ok").Inc()
	m.SetLoadedAt(loadedAt)
}

// SetLoadedAt records when the active bundle was loaded.
func (m *Metrics) SetLoadedAt(t time.Time) {
	m.loadedAt.Set(float64(t.Unix()))
}
