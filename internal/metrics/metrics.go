// Package metrics exposes broker counters and gauges to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "roulette"

// Drop reasons for relayed messages.
const (
	DropReasonNoTarget     = "no_target"
	DropReasonEmptyPayload = "empty_payload"
	DropReasonSendFailed   = "send_failed"
)

type Metrics struct {
	Connections prometheus.Gauge
	Waiting     prometheus.Gauge
	Pairs       prometheus.Gauge

	Matches      prometheus.Counter
	Skips        prometheus.Counter
	Disconnects  prometheus.Counter
	NotifyFailed prometheus.Counter
	Relayed      *prometheus.CounterVec
	RelayDropped *prometheus.CounterVec
	Ticks        prometheus.Counter
}

// New builds the collector set and registers it with reg.
// A nil reg yields working but unregistered collectors.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Connections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Open signaling connections.",
		}),
		Waiting: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "waiting",
			Help:      "Connections in the waiting pool.",
		}),
		Pairs: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pairs",
			Help:      "Currently matched pairs.",
		}),
		Matches: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Pairs established by the matchmaker.",
		}),
		Skips: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skips_total",
			Help:      "Matched connections that skipped their partner.",
		}),
		Disconnects: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disconnects_total",
			Help:      "Connections removed from the registry.",
		}),
		NotifyFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notify_failed_total",
			Help:      "Out-of-band notifications that could not be queued.",
		}),
		Relayed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relayed_total",
			Help:      "Negotiation messages delivered to a target.",
		}, []string{"kind"}),
		RelayDropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_dropped_total",
			Help:      "Negotiation messages dropped without delivery.",
		}, []string{"kind", "reason"}),
		Ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matchmaker_ticks_total",
			Help:      "Matchmaker ticks run.",
		}),
	}
}
