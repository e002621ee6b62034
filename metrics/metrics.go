// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/quickly-judge/models"
)

const namespace = "quickly_judge"

// Metrics records engine and notification outcomes on its own registry.
// It satisfies engine.Recorder and notify.Observer.
type Metrics struct {
	registry *prometheus.Registry

	submissions     *prometheus.CounterVec
	publishes       *prometheus.CounterVec
	publishedRows   *prometheus.GaugeVec
	publishAttempts *prometheus.HistogramVec
	publishDuration *prometheus.HistogramVec
	phase           *prometheus.GaugeVec
	delivered       *prometheus.CounterVec
	dropped         *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Score and vote submissions by track and outcome.",
		}, []string{"track", "outcome"}),
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publishes_total",
			Help:      "Successful result publications by kind.",
		}, []string{"kind"}),
		publishedRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "published_results",
			Help:      "Result rows in the latest publication by kind.",
		}, []string{"kind"}),
		publishAttempts: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_attempts",
			Help:      "Attempts needed per publication, including lost races.",
			Buckets:   []float64{1, 2, 3, 5, 8},
		}, []string{"kind"}),
		publishDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_duration_seconds",
			Help:      "Time to compute and store a publication.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		phase: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "phase",
			Help:      "1 for the current phase of each track, 0 otherwise.",
		}, []string{"track", "phase"}),
		delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_delivered_total",
			Help:      "Notifications handed to subscribers by target role.",
		}, []string{"role"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dropped_total",
			Help:      "Notifications lost to full subscriber buffers by target role.",
		}, []string{"role"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.submissions,
		m.publishes,
		m.publishedRows,
		m.publishAttempts,
		m.publishDuration,
		m.phase,
		m.delivered,
		m.dropped,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveSubmission(track models.Track, outcome string) {
	m.submissions.WithLabelValues(string(track), outcome).Inc()
}

func (m *Metrics) ObservePublish(kind models.Track, results int, attempts int, elapsed time.Duration) {
	k := string(kind)
	m.publishes.WithLabelValues(k).Inc()
	m.publishedRows.WithLabelValues(k).Set(float64(results))
	m.publishAttempts.WithLabelValues(k).Observe(float64(attempts))
	m.publishDuration.WithLabelValues(k).Observe(elapsed.Seconds())
}

func (m *Metrics) ObservePhase(track models.Track, phase models.Phase) {
	for _, p := range []models.Phase{models.PhaseClosed, models.PhaseOpen, models.PhaseLocked} {
		v := 0.0
		if p == phase {
			v = 1
		}
		m.phase.WithLabelValues(string(track), string(p)).Set(v)
	}
}

func (m *Metrics) ObserveBroadcast(role string, delivered, dropped int) {
	m.delivered.WithLabelValues(role).Add(float64(delivered))
	m.dropped.WithLabelValues(role).Add(float64(dropped))
}
