package app

import (
	"context"
	"time"

	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/domain"
	"github.com/rs/zerolog/log"
)

type registryEntry struct {
	Session *domain.Session
	Conn    core.SignalConnection
	Cancel  context.CancelFunc
}

// Registry maps a connection id to its live handle and session record.
// Not safe for concurrent use; the Broker serializes access.
type Registry struct {
	entries map[domain.ConnectionID]*registryEntry
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[domain.ConnectionID]*registryEntry),
	}
}

// Register binds a fresh Idle session to conn. An existing entry for id is replaced.
func (r *Registry) Register(
	id domain.ConnectionID,
	conn core.SignalConnection,
	cancel context.CancelFunc,
	now time.Time,
) *domain.Session {
	sess := domain.NewSession(id, now)
	r.entries[id] = &registryEntry{Session: sess, Conn: conn, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("id", string(id)).Msg("registered connection")
	return sess
}

// Lookup resolves the live handle for id. Unknown ids are reported absent.
func (r *Registry) Lookup(id domain.ConnectionID) (core.SignalConnection, bool) {
	if e, ok := r.entries[id]; ok && e.Conn != nil {
		return e.Conn, true
	}
	return nil, false
}

func (r *Registry) Session(id domain.ConnectionID) (*domain.Session, bool) {
	if e, ok := r.entries[id]; ok {
		return e.Session, true
	}
	return nil, false
}

// Unregister destroys the entry for id and returns its final session record.
func (r *Registry) Unregister(id domain.ConnectionID) (*domain.Session, bool) {
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	delete(r.entries, id)
	log.Info().Str("module", "app.registry").Str("id", string(id)).Msg("unregistered connection")
	return e.Session, true
}

func (r *Registry) Len() int { return len(r.entries) }

// CancelFuncs returns the transport cancel funcs of every entry so they can be run outside the lock.
func (r *Registry) CancelFuncs() []context.CancelFunc {
	out := make([]context.CancelFunc, 0, len(r.entries))
	for _, e := range r.entries {
		if e.Cancel != nil {
			out = append(out, e.Cancel)
		}
	}
	return out
}
