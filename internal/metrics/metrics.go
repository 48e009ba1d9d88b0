// Package metrics exposes dispatch counters and latencies for Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/atomicstack/winadmin/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for the dispatch counter.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeDeclined  = "declined"
	OutcomePending   = "pending_confirmation"
	OutcomeStale     = "stale"
)

// Recorder receives dispatch observations.
type Recorder interface {
	Dispatched(command, outcome string)
	Observe(command string, elapsed time.Duration)
}

// Nop discards every observation.
type Nop struct{}

func (Nop) Dispatched(string, string)     {}
func (Nop) Observe(string, time.Duration) {}

// Collector records dispatches on a dedicated registry.
type Collector struct {
	registry   *prometheus.Registry
	dispatches *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "winadmin",
			Name:      "dispatches_total",
			Help:      "Commands dispatched, by command and outcome.",
		}, []string{"command", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "winadmin",
			Name:      "bridge_call_seconds",
			Help:      "Bridge call latency by command.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"command"}),
	}
	c.registry.MustRegister(c.dispatches, c.latency)
	return c
}

func (c *Collector) Dispatched(command, outcome string) {
	c.dispatches.WithLabelValues(command, outcome).Inc()
}

func (c *Collector) Observe(command string, elapsed time.Duration) {
	c.latency.WithLabelValues(command).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the collector in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		err = fmt.Errorf("metrics server: %w", err)
		logging.Error(err)
		return err
	}
	return nil
}
