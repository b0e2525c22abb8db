package domain

import "time"

type SessionState int

const (
	Idle SessionState = iota
	Queued
	Matched
)

func (s SessionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Queued:
		return "queued"
	case Matched:
		return "matched"
	default:
		return "unknown"
	}
}

// Session is the per-connection pairing record.
// No transport or lifecycle logic here.
type Session struct {
	ID          ConnectionID
	State       SessionState
	Partner     ConnectionID // empty when unpaired
	ConnectedAt time.Time
	MatchedAt   time.Time
	Matches     int
}

// NewSession avoids raw literals in the registry and keeps construction obvious.
func NewSession(id ConnectionID, now time.Time) *Session {
	return &Session{ID: id, State: Idle, ConnectedAt: now}
}

func (s *Session) HasPartner() bool { return s.Partner != "" }
