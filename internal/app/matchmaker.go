package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultMatchInterval = 5 * time.Second

// Matchmaker periodically drains pairs from the broker's waiting pool.
type Matchmaker struct {
	Broker   *Broker
	Interval time.Duration
	// MaxPairsPerTick bounds the pairs made in one tick; zero means no bound.
	MaxPairsPerTick int
}

func NewMatchmaker(b *Broker, interval time.Duration, maxPairs int) *Matchmaker {
	if interval <= 0 {
		interval = DefaultMatchInterval
	}
	return &Matchmaker{Broker: b, Interval: interval, MaxPairsPerTick: maxPairs}
}

// Run ticks until ctx is done. An empty tick never stops the loop.
func (m *Matchmaker) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()
	log.Info().Str("module", "app.matchmaker").Dur("interval", m.Interval).Msg("matchmaker started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.matchmaker").Msg("matchmaker stopped")
			return nil
		case <-ticker.C:
			m.Tick()
		}
	}
}

// Tick makes as many pairs as the pool allows and returns how many it made.
func (m *Matchmaker) Tick() int {
	m.Broker.metrics.Ticks.Inc()
	made := 0
	for m.MaxPairsPerTick <= 0 || made < m.MaxPairsPerTick {
		if _, _, ok := m.Broker.MatchNext(); !ok {
			break
		}
		made++
	}
	if made > 0 {
		log.Debug().Str("module", "app.matchmaker").Int("pairs", made).Msg("tick")
	}
	return made
}
