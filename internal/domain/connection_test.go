package domain

import (
	"strings"
	"testing"
	"time"
)

func TestParseConnectionID(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		err  error
	}{
		{"empty", "", ErrConnectionIDEmpty},
		{"too long", strings.Repeat("a", MaxConnectionIDLen+1), ErrConnectionIDTooLong},
		{"uuid", string(NewConnectionID()), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := ParseConnectionID(tc.raw)
			if err != tc.err {
				t.Fatalf("err=%v, want %v", err, tc.err)
			}
			if err == nil && string(id) != tc.raw {
				t.Fatalf("id=%q, want %q", id, tc.raw)
			}
		})
	}
}

func TestNewConnectionIDUnique(t *testing.T) {
	seen := make(map[ConnectionID]bool)
	for i := 0; i < 100; i++ {
		id := NewConnectionID()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestSessionStartsIdle(t *testing.T) {
	s := NewSession("a", time.Unix(0, 0))
	if s.State != Idle {
		t.Fatalf("state=%v, want %v", s.State, Idle)
	}
	if s.HasPartner() {
		t.Fatalf("new session has partner %q", s.Partner)
	}
	if got := Matched.String(); got != "matched" {
		t.Fatalf("Matched.String()=%q, want %q", got, "matched")
	}
	if got := SessionState(42).String(); got != "unknown" {
		t.Fatalf("SessionState(42).String()=%q, want %q", got, "unknown")
	}
}
