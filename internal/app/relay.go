package app

import (
	"bytes"
	"encoding/json"

	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/domain"
	"github.com/dkeye/Roulette/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Relay forwards negotiation messages to a target connection.
// It trusts the caller's target and never consults partner links.
type Relay struct {
	Broker  *Broker
	Metrics *metrics.Metrics
}

func NewRelay(b *Broker) *Relay {
	return &Relay{Broker: b, Metrics: b.metrics}
}

// Forward delivers payload to `to` tagged with `from`. Undeliverable
// messages are dropped; the sender is never told.
func (r *Relay) Forward(from, to domain.ConnectionID, kind core.MessageKind, payload json.RawMessage) bool {
	logger := log.With().
		Str("module", "app.relay").
		Str("kind", string(kind)).
		Str("from", string(from)).
		Str("to", string(to)).
		Logger()

	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		r.drop(kind, metrics.DropReasonEmptyPayload)
		logger.Warn().Msg("relay: empty payload")
		return false
	}
	conn, ok := r.Broker.Lookup(to)
	if !ok {
		r.drop(kind, metrics.DropReasonNoTarget)
		logger.Debug().Msg("relay: target not found")
		return false
	}
	frame, err := core.Encode(core.Relayed{Type: kind, From: from, Payload: trimmed})
	if err != nil {
		r.drop(kind, metrics.DropReasonSendFailed)
		logger.Error().Err(err).Msg("relay marshal")
		return false
	}
	if err := conn.TrySend(frame); err != nil {
		r.drop(kind, metrics.DropReasonSendFailed)
		logger.Warn().Err(err).Msg("relay send failed")
		return false
	}
	r.Metrics.Relayed.WithLabelValues(string(kind)).Inc()
	logger.Debug().Msg("relayed")
	return true
}

func (r *Relay) drop(kind core.MessageKind, reason string) {
	r.Metrics.RelayDropped.WithLabelValues(string(kind), reason).Inc()
}
