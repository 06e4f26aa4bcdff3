package metrics

import (
	"context"
	"time"

	"github.com/goliatone/go-admin-auth/activitymap"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "admin_auth"

// Collector counts admin activity by verb and outcome
type Collector struct {
	events   *prometheus.CounterVec
	lastSeen *prometheus.GaugeVec
}

// New builds the collector and registers it on reg
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "activity_events_total",
				Help:      "Total admin activity events",
			},
			[]string{"verb", "outcome"},
		),
		lastSeen: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "activity_last_event_timestamp_seconds",
				Help:      "Unix time of the last event per verb",
			},
			[]string{"verb"},
		),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	for _, collector := range []prometheus.Collector{c.events, c.lastSeen} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Observe records an activity entry
func (c *Collector) Observe(_ context.Context, e activitymap.Entry) error {
	c.events.WithLabelValues(e.Verb, e.Outcome).Inc()

	ts := e.At
	if ts.IsZero() {
		ts = time.Now()
	}
	c.lastSeen.WithLabelValues(e.Verb).Set(float64(ts.Unix()))
	return nil
}

// Sink exposes the collector as an auth.ActivitySink
func (c *Collector) Sink() *activitymap.Sink {
	return activitymap.NewSink(c.Observe)
}
