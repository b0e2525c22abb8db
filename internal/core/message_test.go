package core

import "testing"

func TestParseMessageKind(t *testing.T) {
	for _, raw := range []string{"offer", "answer", "ice-candidate"} {
		k, err := ParseMessageKind(raw)
		if err != nil {
			t.Fatalf("ParseMessageKind(%q): %v", raw, err)
		}
		if string(k) != raw {
			t.Fatalf("kind=%q, want %q", k, raw)
		}
	}
	if _, err := ParseMessageKind("candidate"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
