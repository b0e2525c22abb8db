package app

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/domain"
	"github.com/dkeye/Roulette/internal/metrics"
)

// recordingConn collects every frame queued to it.
type recordingConn struct {
	mu     sync.Mutex
	frames []core.Frame
	fail   error
	closed bool
}

func (c *recordingConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *recordingConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

type event struct {
	Type    string              `json:"type"`
	Partner domain.ConnectionID `json:"partner"`
	From    domain.ConnectionID `json:"from"`
	Payload json.RawMessage     `json:"payload"`
}

func (c *recordingConn) events(t *testing.T) []event {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]event, 0, len(c.frames))
	for _, f := range c.frames {
		var ev event
		if err := json.Unmarshal(f, &ev); err != nil {
			t.Fatalf("unmarshal frame %q: %v", f, err)
		}
		out = append(out, ev)
	}
	return out
}

func (c *recordingConn) lastType(t *testing.T) string {
	t.Helper()
	evs := c.events(t)
	if len(evs) == 0 {
		return ""
	}
	return evs[len(evs)-1].Type
}

func newTestBroker() (*Broker, *metrics.Metrics) {
	m := metrics.New(nil)
	return NewBroker(m), m
}

func connect(b *Broker, ids ...domain.ConnectionID) map[domain.ConnectionID]*recordingConn {
	conns := make(map[domain.ConnectionID]*recordingConn, len(ids))
	for _, id := range ids {
		c := &recordingConn{}
		b.Connect(id, c, nil)
		conns[id] = c
	}
	return conns
}

func mustSession(t *testing.T, b *Broker, id domain.ConnectionID) domain.Session {
	t.Helper()
	sess, ok := b.Session(id)
	if !ok {
		t.Fatalf("no session for %q", id)
	}
	return sess
}
