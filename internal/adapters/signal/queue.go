package signal

import (
	"github.com/dkeye/Roulette/internal/app"
	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleJoinQueue(id domain.ConnectionID, conn *WsSignalConn) {
	if !ctl.Limiter.Allow(id) {
		log.Warn().Str("module", "signal").Str("id", string(id)).Msg("join rate limited")
		ctl.sendError(conn, "rate_limited")
		return
	}
	switch ctl.Broker.Join(id) {
	case app.Joined:
		ctl.sendJSON(conn, core.NewQueueStatus(core.StatusJoined, "You have joined the queue."))
	case app.AlreadyQueued:
		ctl.sendJSON(conn, core.NewQueueStatus(core.StatusJoined, "You are already in the queue."))
	case app.AlreadyMatched:
		ctl.sendJSON(conn, core.NewQueueStatus(core.StatusMatched, "You are already matched."))
	case app.UnknownConnection:
		ctl.sendError(conn, "unknown_connection")
	}
}

func (ctl *SignalWSController) handleLeaveQueue(id domain.ConnectionID, conn *WsSignalConn) {
	if ctl.Broker.Leave(id) {
		ctl.sendJSON(conn, core.NewQueueStatus(core.StatusLeft, "You have left the queue."))
		return
	}
	ctl.sendJSON(conn, core.NewQueueStatus(core.StatusLeft, "You were not in the queue."))
}

func (ctl *SignalWSController) handleSkipUser(id domain.ConnectionID, conn *WsSignalConn) {
	if !ctl.Limiter.Allow(id) {
		log.Warn().Str("module", "signal").Str("id", string(id)).Msg("skip rate limited")
		ctl.sendError(conn, "rate_limited")
		return
	}
	switch ctl.Broker.Skip(id) {
	case app.Joined:
		ctl.sendJSON(conn, core.NewQueueStatus(core.StatusJoined, "You have rejoined the queue."))
	case app.AlreadyQueued:
		ctl.sendJSON(conn, core.NewQueueStatus(core.StatusJoined, "You are already in the queue."))
	default:
		ctl.sendError(conn, "unknown_connection")
	}
}
