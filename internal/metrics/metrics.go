// Package metrics exposes engine activity as Prometheus counters.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fortio.org/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SeamusWaldron/cubesim"
)

const namespace = "cubesim"

// Collector holds the engine metrics on a private registry.
type Collector struct {
	registry *prometheus.Registry

	turns         *prometheus.CounterVec
	sequences     *prometheus.CounterVec
	sequenceTicks *prometheus.HistogramVec
	frames        prometheus.Counter
	solved        prometheus.Gauge
}

// New creates a collector and registers its metrics.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Committed quarter turns by source.",
		}, []string{"source"}),
		sequences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sequences_total",
			Help:      "Completed shuffles and scripted sequences by source.",
		}, []string{"source"}),
		sequenceTicks: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sequence_ticks",
			Help:      "Ticks from the start of a sequence to its completion.",
			Buckets:   prometheus.ExponentialBuckets(32, 2, 8),
		}, []string{"source"}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Engine updates.",
		}),
		solved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "solved",
			Help:      "1 when every sub-cube is in its construction slot.",
		}),
	}
	c.registry.MustRegister(c.turns, c.sequences, c.sequenceTicks, c.frames, c.solved)
	return c
}

// Registry returns the registry the metrics live on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordTurn counts a committed turn. It has the OnTurn callback signature.
func (c *Collector) RecordTurn(ev cubesim.TurnEvent) {
	c.turns.WithLabelValues(ev.Source.String()).Inc()
}

// RecordSequence counts a finished sequence. It has the OnSequenceComplete
// callback signature.
func (c *Collector) RecordSequence(s cubesim.SequenceSummary) {
	src := s.Source.String()
	c.sequences.WithLabelValues(src).Inc()
	c.sequenceTicks.WithLabelValues(src).Observe(float64(s.EndTick - s.StartTick))
}

// RecordFrame counts one engine update and samples the solved state.
func (c *Collector) RecordFrame(e *cubesim.Engine) {
	c.frames.Inc()
	if e.Solved() {
		c.solved.Set(1)
	} else {
		c.solved.Set(0)
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("metrics shutdown: %v", err)
		}
	}()

	log.Infof("serving metrics on %s/metrics", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
