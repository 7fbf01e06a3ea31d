// Package metrics exports dashboard telemetry as Prometheus series.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-widgetboard/components/dashboard"
)

const defaultNamespace = "widgetboard"

// Options configures the collector.
type Options struct {
	Namespace string
	// Sessions reports the number of live sessions. Nil skips the gauge.
	Sessions func() int
}

// Telemetry counts dashboard events on a private registry.
type Telemetry struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
	errors   prometheus.Counter
}

var _ dashboard.Telemetry = (*Telemetry)(nil)

// New registers the dashboard collectors.
func New(opts Options) *Telemetry {
	ns := opts.Namespace
	if ns == "" {
		ns = defaultNamespace
	}
	t := &Telemetry{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "dashboard",
			Name:      "events_total",
			Help:      "Dashboard events by name.",
		}, []string{"event"}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "dashboard",
			Name:      "errors_total",
			Help:      "Dashboard events that carried an error.",
		}),
	}
	t.registry.MustRegister(t.events, t.errors)
	if opts.Sessions != nil {
		sessions := opts.Sessions
		t.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: "dashboard",
			Name:      "sessions_active",
			Help:      "Sessions held by the session store.",
		}, func() float64 { return float64(sessions()) }))
	}
	return t
}

// Record counts the event. Payloads with an "error" key also bump the error
// counter.
func (t *Telemetry) Record(_ context.Context, event string, payload map[string]any) {
	t.events.WithLabelValues(event).Inc()
	if _, failed := payload["error"]; failed {
		t.errors.Inc()
	}
}

// Registry exposes the private registry.
func (t *Telemetry) Registry() *prometheus.Registry {
	return t.registry
}

// Handler serves the registry in the Prometheus text format.
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}
