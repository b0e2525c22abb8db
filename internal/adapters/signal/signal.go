package signal

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Roulette/internal/app"
	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type Options struct {
	ReadLimit       int64
	PingPeriod      time.Duration
	SendBuffer      int
	QueueRateLimit  int
	QueueRateWindow time.Duration
}

type SignalWSController struct {
	Broker  *app.Broker
	Relay   *app.Relay
	Limiter *QueueRateLimiter

	opts  Options
	pumps sync.WaitGroup
}

func NewSignalWSController(broker *app.Broker, relay *app.Relay, opts Options) *SignalWSController {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 32
	}
	if opts.PingPeriod <= 0 {
		opts.PingPeriod = 54 * time.Second
	}
	return &SignalWSController{
		Broker:  broker,
		Relay:   relay,
		Limiter: NewQueueRateLimiter(opts.QueueRateLimit, opts.QueueRateWindow),
		opts:    opts,
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnectionClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and runs one connection until it closes.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	id := domain.NewConnectionID()
	logger := log.With().Str("module", "signal").Str("id", string(id)).Str("visitor", c.GetString("visitor")).Logger()

	// Counted before the upgrade hijacks the connection away from http.Server.
	ctl.pumps.Add(2)
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		ctl.pumps.Add(-2)
		logger.Error().Err(err).Msg("ws upgrade")
		return
	}
	logger.Info().Msg("new WS connection")

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.opts.SendBuffer),
	}
	ctx, cancel := context.WithCancel(ctx)
	ctl.Broker.Connect(id, conn, cancel)
	ctl.sendJSON(conn, struct {
		Type string              `json:"type"`
		ID   domain.ConnectionID `json:"id"`
	}{core.EventWelcome, id})

	go func() {
		defer ctl.pumps.Done()
		ctl.writePump(ctx, conn)
	}()
	go func() {
		defer ctl.pumps.Done()
		ctl.readPump(ctx, cancel, id, conn)
	}()
}

// Wait blocks until every connection's pumps have exited, so each
// disconnect has been applied to the broker, or until ctx is done.
func (ctl *SignalWSController) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		ctl.pumps.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
