package app

import (
	"encoding/json"
	"testing"

	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/core/mocks"
	"github.com/dkeye/Roulette/internal/domain"
	"github.com/dkeye/Roulette/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"
)

func TestRelay_ForwardTagsSender(t *testing.T) {
	ctrl := gomock.NewController(t)
	target := mocks.NewMockSignalConnection(ctrl)

	b, m := newTestBroker()
	b.Connect("from", &recordingConn{}, nil)
	b.Connect("to", target, nil)

	payload := json.RawMessage(`{"type":"offer","sdp":"v=0"}`)
	target.EXPECT().TrySend(gomock.Any()).DoAndReturn(func(f core.Frame) error {
		var got core.Relayed
		if err := json.Unmarshal(f, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Type != core.KindOffer || got.From != "from" {
			t.Fatalf("relayed=%+v, want offer from \"from\"", got)
		}
		if string(got.Payload) != string(payload) {
			t.Fatalf("payload=%s, want %s", got.Payload, payload)
		}
		return nil
	})

	r := NewRelay(b)
	if !r.Forward("from", "to", core.KindOffer, payload) {
		t.Fatalf("Forward=false, want true")
	}
	if got := testutil.ToFloat64(m.Relayed.WithLabelValues("offer")); got != 1 {
		t.Fatalf("relayed metric=%v, want 1", got)
	}
}

func TestRelay_DoesNotRequirePartnerLink(t *testing.T) {
	b, _ := newTestBroker()
	conns := connect(b, "a", "stranger")
	r := NewRelay(b)

	if !r.Forward("a", "stranger", core.KindCandidate, json.RawMessage(`{"candidate":"x"}`)) {
		t.Fatalf("Forward to unpaired target=false, want true")
	}
	if got := conns["stranger"].lastType(t); got != string(core.KindCandidate) {
		t.Fatalf("stranger last event=%q, want ice-candidate", got)
	}
}

func TestRelay_DropsSilently(t *testing.T) {
	ctrl := gomock.NewController(t)
	target := mocks.NewMockSignalConnection(ctrl)

	b, m := newTestBroker()
	b.Connect("to", target, nil)
	r := NewRelay(b)

	cases := []struct {
		name    string
		to      string
		payload json.RawMessage
		reason  string
	}{
		{"unknown target", "ghost", json.RawMessage(`{}`), metrics.DropReasonNoTarget},
		{"missing payload", "to", nil, metrics.DropReasonEmptyPayload},
		{"null payload", "to", json.RawMessage(`null`), metrics.DropReasonEmptyPayload},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if r.Forward("from", domain.ConnectionID(tc.to), core.KindAnswer, tc.payload) {
				t.Fatalf("Forward=true, want false")
			}
			if got := testutil.ToFloat64(m.RelayDropped.WithLabelValues("answer", tc.reason)); got < 1 {
				t.Fatalf("dropped metric for %s=%v, want >= 1", tc.reason, got)
			}
		})
	}
}

func TestRelay_SendFailureDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	target := mocks.NewMockSignalConnection(ctrl)
	target.EXPECT().TrySend(gomock.Any()).Return(core.ErrConnectionClosed)

	b, m := newTestBroker()
	b.Connect("to", target, nil)
	if NewRelay(b).Forward("from", "to", core.KindOffer, json.RawMessage(`{}`)) {
		t.Fatalf("Forward=true, want false")
	}
	if got := testutil.ToFloat64(m.RelayDropped.WithLabelValues("offer", metrics.DropReasonSendFailed)); got != 1 {
		t.Fatalf("dropped metric=%v, want 1", got)
	}
}

func TestRelay_AfterDisconnectNoTarget(t *testing.T) {
	b, _ := newTestBroker()
	connect(b, "a", "b")
	b.Disconnect("b")
	if NewRelay(b).Forward("a", "b", core.KindOffer, json.RawMessage(`{}`)) {
		t.Fatalf("Forward to disconnected=true, want false")
	}
}
