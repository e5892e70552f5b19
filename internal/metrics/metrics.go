// Package metrics records playback pipeline counters and stage timings.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stage names used for timing observations.
const (
	StageDecode  = "decode"
	StageConvert = "convert"
	StageEncode  = "encode"
	StagePresent = "present"
)

// Metrics holds the collectors of one playback session. A nil *Metrics is a no-op.
type Metrics struct {
	registry *prometheus.Registry

	ticks  *prometheus.CounterVec
	frames prometheus.Counter
	stages *prometheus.HistogramVec
	state  prometheus.Gauge
}

// New registers the pipeline collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		ticks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "framepace",
			Subsystem: "pipeline",
			Name:      "ticks_total",
			Help:      "Pipeline ticks by outcome",
		}, []string{"outcome"}),
		frames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "framepace",
			Subsystem: "pipeline",
			Name:      "frames_advanced_total",
			Help:      "Frames decoded and displayed",
		}),
		stages: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "framepace",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each per-frame stage",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}, []string{"stage"}),
		state: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "framepace",
			Subsystem: "pipeline",
			Name:      "state",
			Help:      "Playback state (0 priming, 1 playing, 2 exhausted)",
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveTick(outcome string) {
	if m == nil {
		return
	}
	m.ticks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stages.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) FrameAdvanced() {
	if m == nil {
		return
	}
	m.frames.Inc()
}

func (m *Metrics) SetState(s int) {
	if m == nil {
		return
	}
	m.state.Set(float64(s))
}

// WriteTextfile dumps the current values in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
