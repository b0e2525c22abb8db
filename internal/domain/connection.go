// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"

	"github.com/google/uuid"
)

const MaxConnectionIDLen = 36

var (
	ErrConnectionIDEmpty   = errors.New("connection id empty")
	ErrConnectionIDTooLong = errors.New("connection id too long")
)

// ConnectionID identifies one live connection. It is minted on connect
// and never reused after disconnect.
type ConnectionID string

// NewConnectionID is a tiny helper to avoid ad-hoc uuid calls in adapters.
func NewConnectionID() ConnectionID {
	return ConnectionID(uuid.NewString())
}

// ParseConnectionID validates an id received from a client.
func ParseConnectionID(raw string) (ConnectionID, error) {
	if len(raw) == 0 {
		return "", ErrConnectionIDEmpty
	}
	if len(raw) > MaxConnectionIDLen {
		return "", ErrConnectionIDTooLong
	}
	return ConnectionID(raw), nil
}
