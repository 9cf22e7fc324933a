package server

import (
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors of the server.
type Metrics struct {
	gatherer prometheus.Gatherer

	Conversions        *prometheus.CounterVec
	ConversionDuration *prometheus.HistogramVec
	SceneEntities      prometheus.Gauge
}

// NewMetrics registers the server metrics against reg, defaulting to the
// global registry when nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	conversions, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "floorprint_conversions_total",
		Help: "Number of project conversions, labeled by endpoint and outcome.",
	}, []string{"endpoint", "outcome"}))
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "floorprint_conversion_duration_seconds",
		Help:    "Project conversion latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"endpoint"}))
	if err != nil {
		return nil, err
	}
	entities, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "floorprint_scene_entities",
		Help: "Number of entities in the most recently assembled scene.",
	}))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		gatherer:           gatherer,
		Conversions:        conversions,
		ConversionDuration: duration,
		SceneEntities:      entities,
	}, nil
}

// Observe records one conversion served by endpoint.
func (m *Metrics) Observe(endpoint, outcome string, start time.Time) {
	m.Conversions.WithLabelValues(endpoint, outcome).Inc()
	m.ConversionDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// Handler exposes the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// register adds c to reg, reusing an existing collector of the same type.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
			return c, errors.Newf("collector already registered with incompatible type: %v", err)
		}
		return c, err
	}
	return c, nil
}
