package core

import "fmt"

// MessageKind is one of the negotiation messages forwarded between partners.
// Payloads of every kind are opaque to the broker.
type MessageKind string

const (
	KindOffer     MessageKind = "offer"
	KindAnswer    MessageKind = "answer"
	KindCandidate MessageKind = "ice-candidate"
)

func ParseMessageKind(raw string) (MessageKind, error) {
	switch k := MessageKind(raw); k {
	case KindOffer, KindAnswer, KindCandidate:
		return k, nil
	default:
		return "", fmt.Errorf("unknown message kind %q", raw)
	}
}
