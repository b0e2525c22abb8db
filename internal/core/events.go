package core

import (
	"encoding/json"

	"github.com/dkeye/Roulette/internal/domain"
)

// Outbound event types.
const (
	EventWelcome        = "welcome"
	EventQueueStatus    = "queue-status"
	EventMatchFound     = "match-found"
	EventPartnerSkipped = "partner-skipped"
	EventError          = "error"
)

// Queue status values carried by queue-status.
const (
	StatusJoined  = "joined"
	StatusLeft    = "left"
	StatusMatched = "matched"
)

type QueueStatus struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NewQueueStatus(status, message string) QueueStatus {
	return QueueStatus{Type: EventQueueStatus, Status: status, Message: message}
}

type MatchFound struct {
	Type    string              `json:"type"`
	Partner domain.ConnectionID `json:"partner"`
}

func NewMatchFound(partner domain.ConnectionID) MatchFound {
	return MatchFound{Type: EventMatchFound, Partner: partner}
}

type PartnerSkipped struct {
	Type string `json:"type"`
}

func NewPartnerSkipped() PartnerSkipped {
	return PartnerSkipped{Type: EventPartnerSkipped}
}

// Relayed is a negotiation message as delivered to its target.
type Relayed struct {
	Type    MessageKind         `json:"type"`
	From    domain.ConnectionID `json:"from"`
	Payload json.RawMessage     `json:"payload"`
}

// Encode marshals an outbound event into a frame.
func Encode(v any) (Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Frame(b), nil
}
