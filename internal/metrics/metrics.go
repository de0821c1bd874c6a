// Package metrics collects client session counters on a private registry,
// exposed through the debug HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cardclient"

// Metrics aggregates the session-layer counters. A nil *Metrics is valid and
// records nothing, which keeps tests free of registry plumbing.
type Metrics struct {
	registry *prometheus.Registry

	connects       prometheus.Counter
	reconnects     prometheus.Counter
	sent           prometheus.Counter
	queued         prometheus.Counter
	inboundDropped prometheus.Counter
	snapshots      prometheus.Counter
	joinAttempts   prometheus.Counter
	status         prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		connects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_attempts_total",
			Help:      "Connection attempts, initial and reconnect alike.",
		}),
		reconnects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconnects_scheduled_total",
			Help:      "Reconnection timers scheduled after involuntary disconnects.",
		}),
		sent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Messages written to the transport, including queue flushes.",
		}),
		queued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_queued_total",
			Help:      "Messages buffered because the connection was not open.",
		}),
		inboundDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inbound_dropped_total",
			Help:      "Inbound frames dropped as non-parseable.",
		}),
		snapshots: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_received_total",
			Help:      "Full room snapshots received from the server.",
		}),
		joinAttempts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "join_attempts_total",
			Help:      "Join requests sent, including retries.",
		}),
		status: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connection_status",
			Help:      "Current connection lifecycle state (wsclient.Status numeric value).",
		}),
	}
}

// Registry returns the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ConnectAttempt() {
	if m != nil {
		m.connects.Inc()
	}
}

func (m *Metrics) ReconnectScheduled() {
	if m != nil {
		m.reconnects.Inc()
	}
}

func (m *Metrics) MessageSent() {
	if m != nil {
		m.sent.Inc()
	}
}

func (m *Metrics) MessageQueued() {
	if m != nil {
		m.queued.Inc()
	}
}

func (m *Metrics) InboundDropped() {
	if m != nil {
		m.inboundDropped.Inc()
	}
}

func (m *Metrics) SnapshotReceived() {
	if m != nil {
		m.snapshots.Inc()
	}
}

func (m *Metrics) JoinAttempt() {
	if m != nil {
		m.joinAttempts.Inc()
	}
}

func (m *Metrics) SetStatus(code int) {
	if m != nil {
		m.status.Set(float64(code))
	}
}
