// Package telemetry exports frame statistics to Prometheus.
package telemetry

import (
	"errors"
	"net/http"
	"time"

	"github.com/gekko3d/particlefield"
	"github.com/gekko3d/particlefield/fieldsim/fs/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "particlefield"

// FrameMetrics is a core.FrameObserver. Metrics are registered on the
// registerer given to NewFrameMetrics, so several instances can coexist in tests.
type FrameMetrics struct {
	Frames       prometheus.Counter
	Skipped      prometheus.Counter
	Respawned    prometheus.Counter
	SimSeconds   prometheus.Counter
	FrameSeconds prometheus.Histogram
	Emitters     prometheus.Gauge
	Particles    prometheus.Gauge
}

func NewFrameMetrics(reg prometheus.Registerer) *FrameMetrics {
	f := promauto.With(reg)
	return &FrameMetrics{
		Frames: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames driven, including skipped ones",
		}),
		Skipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_skipped_total",
			Help:      "Frames whose begin or submit failed; no swap happened",
		}),
		Respawned: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "particles_respawned_total",
			Help:      "Particles respawned by the step (CPU pipelines only)",
		}),
		SimSeconds: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulated_seconds_total",
			Help:      "Simulated time after clamping and time scaling",
		}),
		FrameSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "CPU time spent recording one frame",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 10),
		}),
		Emitters: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "emitters",
			Help:      "Committed emitters in the last frame",
		}),
		Particles: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "particles",
			Help:      "Particles advanced by the last step",
		}),
	}
}

func (m *FrameMetrics) FrameDone(s core.FrameStats) {
	m.Frames.Inc()
	m.FrameSeconds.Observe(s.Elapsed.Seconds())
	m.Emitters.Set(float64(s.Emitters))
	if s.Skipped {
		m.Skipped.Inc()
		return
	}
	m.SimSeconds.Add(float64(s.Dt))
	m.Particles.Set(float64(s.Step.Particles))
	m.Respawned.Add(float64(s.Step.Respawned))
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve exposes g on addr under /metrics in a background goroutine. The
// returned server is shut down by the caller.
func Serve(addr string, g prometheus.Gatherer, logger particlefield.Logger) *http.Server {
	log := particlefield.OrNop(logger)
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Infof("metrics listening on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warnf("metrics server exited: %v", err)
		}
	}()
	return srv
}
