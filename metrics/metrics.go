// Package metrics exports form lifecycle events as Prometheus metrics.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/johnsonav1992/formularity/event"
)

// Collector turns form events into metrics.
type Collector struct {
	Events             *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec
	SubmitsInFlight    *prometheus.GaugeVec

	mu      sync.Mutex
	started map[string]time.Time // form ID -> validation start
}

// New creates a Collector and registers its metrics with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "formularity",
				Subsystem: "form",
				Name:      "events_total",
				Help:      "Total number of form lifecycle events",
			},
			[]string{"form", "type"},
		),

		ValidationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "formularity",
				Subsystem: "validation",
				Name:      "duration_seconds",
				Help:      "Whole-form validation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"form", "status"},
		),

		SubmitsInFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "formularity",
				Subsystem: "submit",
				Name:      "in_flight",
				Help:      "Submissions currently running (0 or 1 per form)",
			},
			[]string{"form"},
		),

		started: make(map[string]time.Time),
	}

	for _, m := range []prometheus.Collector{c.Events, c.ValidationDuration, c.SubmitsInFlight} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Observe records one event.
func (c *Collector) Observe(e event.Event) {
	c.Events.WithLabelValues(e.FormID, string(e.Type)).Inc()

	switch e.Type {
	case event.ValidationStart:
		c.mu.Lock()
		c.started[e.FormID] = e.Timestamp
		c.mu.Unlock()
	case event.ValidationEnd:
		c.observeValidation(e, "ok")
	case event.ValidationFailed:
		c.observeValidation(e, "failed")
	case event.SubmitStart:
		c.SubmitsInFlight.WithLabelValues(e.FormID).Set(1)
	case event.SubmitEnd:
		c.SubmitsInFlight.WithLabelValues(e.FormID).Set(0)
	}
}

func (c *Collector) observeValidation(e event.Event, status string) {
	c.mu.Lock()
	start, ok := c.started[e.FormID]
	delete(c.started, e.FormID)
	c.mu.Unlock()

	if !ok || e.Timestamp.Before(start) {
		return
	}
	c.ValidationDuration.WithLabelValues(e.FormID, status).Observe(e.Timestamp.Sub(start).Seconds())
}

// Run observes events until the channel closes or ctx is done.
func (c *Collector) Run(ctx context.Context, events <-chan event.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			c.Observe(e)
		}
	}
}
