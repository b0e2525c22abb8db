package app

import (
	"context"
	"testing"
	"time"
)

func TestRegistry_LookupAbsent(t *testing.T) {
	r := NewRegistry()
	if conn, ok := r.Lookup("ghost"); ok || conn != nil {
		t.Fatalf("Lookup(ghost)=(%v,%v), want (nil,false)", conn, ok)
	}
	if _, ok := r.Unregister("ghost"); ok {
		t.Fatalf("Unregister(ghost)=true")
	}
}

func TestRegistry_RegisterUnregister(t *testing.T) {
	r := NewRegistry()
	now := time.Unix(100, 0)
	conn := &recordingConn{}
	sess := r.Register("a", conn, nil, now)
	if !sess.ConnectedAt.Equal(now) {
		t.Fatalf("connected_at=%v, want %v", sess.ConnectedAt, now)
	}
	if got, ok := r.Lookup("a"); !ok || got != conn {
		t.Fatalf("Lookup(a)=(%v,%v)", got, ok)
	}
	if r.Len() != 1 {
		t.Fatalf("len=%d, want 1", r.Len())
	}
	if _, ok := r.Unregister("a"); !ok {
		t.Fatalf("Unregister(a)=false")
	}
	if _, ok := r.Lookup("a"); ok {
		t.Fatalf("a resolves after Unregister")
	}
}

func TestRegistry_CancelFuncs(t *testing.T) {
	r := NewRegistry()
	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Register("a", &recordingConn{}, cancel, time.Now())
	r.Register("b", &recordingConn{}, nil, time.Now())
	if got := len(r.CancelFuncs()); got != 1 {
		t.Fatalf("cancel funcs=%d, want 1", got)
	}
}
