package signal

import (
	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/domain"
	"github.com/rs/zerolog/log"
)

// handleNegotiation forwards offer, answer and ice-candidate messages.
// Payloads are never inspected; bad targets are dropped without a reply.
func (ctl *SignalWSController) handleNegotiation(id domain.ConnectionID, msg inbound) {
	kind, err := core.ParseMessageKind(msg.Type)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("negotiation kind")
		return
	}
	target, err := domain.ParseConnectionID(msg.Target)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("id", string(id)).Str("kind", string(kind)).Msg("negotiation target")
		return
	}
	ctl.Relay.Forward(id, target, kind, msg.Payload)
}
