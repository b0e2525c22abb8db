package core

import "errors"

//go:generate mockgen -destination=mocks/mock_signal.go -package=mocks github.com/dkeye/Roulette/internal/core SignalConnection

var (
	ErrBackpressure     = errors.New("backpressure")
	ErrConnectionClosed = errors.New("connection closed")
)

// Frame is a raw binary payload.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
// TrySend must never block.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
