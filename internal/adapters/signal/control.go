package signal

import (
	"github.com/dkeye/Roulette/internal/domain"
)

func (ctl *SignalWSController) handlePing(
	conn *WsSignalConn,
) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *SignalWSController) handleWhoAmI(
	id domain.ConnectionID,
	conn *WsSignalConn,
) {
	sess, ok := ctl.Broker.Session(id)
	if !ok {
		ctl.sendError(conn, "unknown_connection")
		return
	}
	resp := struct {
		Type    string              `json:"type"`
		ID      domain.ConnectionID `json:"id"`
		State   string              `json:"state"`
		Partner domain.ConnectionID `json:"partner,omitempty"`
		Matches int                 `json:"matches"`
	}{
		Type:    "whoami",
		ID:      sess.ID,
		State:   sess.State.String(),
		Partner: sess.Partner,
		Matches: sess.Matches,
	}
	ctl.sendJSON(conn, resp)
}
