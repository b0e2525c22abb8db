package app

import (
	"context"
	"sync"
	"time"

	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/domain"
	"github.com/dkeye/Roulette/internal/metrics"
	"github.com/rs/zerolog/log"
)

// JoinResult reports where a connection ended up after join or skip.
type JoinResult int

const (
	Joined JoinResult = iota
	AlreadyQueued
	AlreadyMatched
	UnknownConnection
)

type Stats struct {
	Connections int `json:"connections"`
	Waiting     int `json:"waiting"`
	Pairs       int `json:"pairs"`
}

// Broker owns the waiting pool and the connection registry.
// Every exported method is one critical section, so no caller can
// observe a half-applied transition.
type Broker struct {
	mu       sync.Mutex
	registry *Registry
	pool     *Pool
	pairs    int

	metrics *metrics.Metrics
	now     func() time.Time
}

func NewBroker(m *metrics.Metrics) *Broker {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Broker{
		registry: NewRegistry(),
		pool:     NewPool(),
		metrics:  m,
		now:      time.Now,
	}
}

// Connect creates the Idle session record and binds the handle to it.
func (b *Broker) Connect(id domain.ConnectionID, conn core.SignalConnection, cancel context.CancelFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.registry.Session(id); ok {
		log.Warn().Str("module", "app.broker").Str("id", string(id)).Msg("connect with live id, dropping old session")
		b.disconnectLocked(id)
	}
	b.registry.Register(id, conn, cancel, b.now())
	b.syncGauges()
}

// Join moves an Idle connection into the waiting pool.
func (b *Broker) Join(id domain.ConnectionID) JoinResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	sess, ok := b.registry.Session(id)
	if !ok {
		log.Warn().Str("module", "app.broker").Str("id", string(id)).Msg("join from unknown connection")
		return UnknownConnection
	}
	switch sess.State {
	case domain.Queued:
		log.Debug().Str("module", "app.broker").Str("id", string(id)).Msg("join while queued")
		return AlreadyQueued
	case domain.Matched:
		log.Debug().Str("module", "app.broker").Str("id", string(id)).Str("partner", string(sess.Partner)).Msg("join while matched")
		return AlreadyMatched
	}
	b.enqueueLocked(sess)
	b.syncGauges()
	return Joined
}

// Leave takes a Queued connection out of the pool. Returns false if it was not queued.
func (b *Broker) Leave(id domain.ConnectionID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	sess, ok := b.registry.Session(id)
	if !ok || sess.State != domain.Queued {
		return false
	}
	b.pool.Remove(id)
	sess.State = domain.Idle
	log.Info().Str("module", "app.broker").Str("id", string(id)).Msg("left queue")
	b.syncGauges()
	return true
}

// Establish pairs two connections that are not already matched.
func (b *Broker) Establish(a, c domain.ConnectionID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if a == c {
		return false
	}
	sa, okA := b.registry.Session(a)
	sc, okC := b.registry.Session(c)
	if !okA || !okC || sa.State == domain.Matched || sc.State == domain.Matched {
		return false
	}
	b.pool.Remove(a)
	b.pool.Remove(c)
	b.establishLocked(sa, sc)
	b.syncGauges()
	return true
}

// MatchNext dequeues the two oldest waiting connections and pairs them.
func (b *Broker) MatchNext() (domain.ConnectionID, domain.ConnectionID, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	defer b.syncGauges()
	for {
		a, c, ok := b.pool.DequeuePair()
		if !ok {
			return "", "", false
		}
		sa, okA := b.registry.Session(a)
		sc, okC := b.registry.Session(c)
		if okA && okC {
			b.establishLocked(sa, sc)
			return a, c, true
		}
		// A pooled id without a registry entry breaks the pool invariant.
		// Keep the live side at the head and try again.
		log.Error().Str("module", "app.broker").Str("a", string(a)).Str("b", string(c)).Msg("dequeued dead connection")
		if okC {
			b.pool.PushFront(c)
		}
		if okA {
			b.pool.PushFront(a)
		}
	}
}

// Skip drops the current partner and sends both sides back to the pool.
func (b *Broker) Skip(id domain.ConnectionID) JoinResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	sess, ok := b.registry.Session(id)
	if !ok {
		log.Warn().Str("module", "app.broker").Str("id", string(id)).Msg("skip from unknown connection")
		return UnknownConnection
	}
	switch sess.State {
	case domain.Queued:
		return AlreadyQueued
	case domain.Matched:
		b.releasePartnerLocked(sess)
		b.metrics.Skips.Inc()
		log.Info().Str("module", "app.broker").Str("id", string(id)).Msg("skipped partner")
	}
	b.enqueueLocked(sess)
	b.syncGauges()
	return Joined
}

// Disconnect destroys the session of id. A live partner is notified and requeued.
func (b *Broker) Disconnect(id domain.ConnectionID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disconnectLocked(id)
}

func (b *Broker) disconnectLocked(id domain.ConnectionID) bool {
	b.pool.Remove(id)
	sess, ok := b.registry.Session(id)
	if !ok {
		return false
	}
	if sess.State == domain.Matched {
		b.releasePartnerLocked(sess)
	}
	b.registry.Unregister(id)
	b.metrics.Disconnects.Inc()
	b.syncGauges()
	return true
}

// Lookup resolves the live handle of id for the relay.
func (b *Broker) Lookup(id domain.ConnectionID) (core.SignalConnection, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registry.Lookup(id)
}

// Session returns a copy of the session record of id.
func (b *Broker) Session(id domain.ConnectionID) (domain.Session, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sess, ok := b.registry.Session(id)
	if !ok {
		return domain.Session{}, false
	}
	return *sess, true
}

// Waiting returns the pooled ids in match order.
func (b *Broker) Waiting() []domain.ConnectionID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pool.IDs()
}

func (b *Broker) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{
		Connections: b.registry.Len(),
		Waiting:     b.pool.Len(),
		Pairs:       b.pairs,
	}
}

// Shutdown cancels every registered transport. Sessions are unwound by
// the transports' own disconnect handling.
func (b *Broker) Shutdown() {
	b.mu.Lock()
	cancels := b.registry.CancelFuncs()
	b.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
	log.Info().Str("module", "app.broker").Int("connections", len(cancels)).Msg("shutdown")
}

func (b *Broker) enqueueLocked(sess *domain.Session) {
	sess.State = domain.Queued
	sess.Partner = ""
	b.pool.Enqueue(sess.ID)
	log.Info().Str("module", "app.broker").Str("id", string(sess.ID)).Int("waiting", b.pool.Len()).Msg("joined queue")
}

func (b *Broker) establishLocked(sa, sc *domain.Session) {
	now := b.now()
	sa.State, sa.Partner, sa.MatchedAt = domain.Matched, sc.ID, now
	sc.State, sc.Partner, sc.MatchedAt = domain.Matched, sa.ID, now
	sa.Matches++
	sc.Matches++
	b.pairs++
	b.metrics.Matches.Inc()
	log.Info().Str("module", "app.broker").Str("a", string(sa.ID)).Str("b", string(sc.ID)).Msg("matched")

	b.notifyLocked(sa.ID, core.NewMatchFound(sc.ID))
	b.notifyLocked(sc.ID, core.NewMatchFound(sa.ID))
}

// releasePartnerLocked clears the link of sess and recovers its partner:
// notified, unlinked and requeued. A stale link is cleared silently.
func (b *Broker) releasePartnerLocked(sess *domain.Session) {
	partnerID := sess.Partner
	sess.Partner = ""
	if partnerID == "" {
		return
	}
	partner, ok := b.registry.Session(partnerID)
	if !ok || partner.Partner != sess.ID {
		log.Debug().Str("module", "app.broker").Str("id", string(sess.ID)).Str("partner", string(partnerID)).Msg("stale partner link")
		return
	}
	b.pairs--
	b.notifyLocked(partnerID, core.NewPartnerSkipped())
	b.enqueueLocked(partner)
}

func (b *Broker) notifyLocked(id domain.ConnectionID, v any) {
	conn, ok := b.registry.Lookup(id)
	if !ok {
		log.Debug().Str("module", "app.broker").Str("id", string(id)).Msg("notify: no live handle")
		return
	}
	frame, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.broker").Msg("notify marshal")
		return
	}
	if err := conn.TrySend(frame); err != nil {
		b.metrics.NotifyFailed.Inc()
		log.Warn().Err(err).Str("module", "app.broker").Str("id", string(id)).Msg("notify dropped")
	}
}

func (b *Broker) syncGauges() {
	b.metrics.Connections.Set(float64(b.registry.Len()))
	b.metrics.Waiting.Set(float64(b.pool.Len()))
	b.metrics.Pairs.Set(float64(b.pairs))
}
