package app

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/dkeye/Roulette/internal/domain"
)

func TestPool_EnqueueIdempotent(t *testing.T) {
	p := NewPool()
	if !p.Enqueue("a") {
		t.Fatalf("first Enqueue(a)=false, want true")
	}
	if p.Enqueue("a") {
		t.Fatalf("second Enqueue(a)=true, want false")
	}
	if p.Len() != 1 {
		t.Fatalf("len=%d, want 1", p.Len())
	}
}

func TestPool_RemoveAbsent(t *testing.T) {
	p := NewPool()
	if p.Remove("ghost") {
		t.Fatalf("Remove(ghost)=true, want false")
	}
	p.Enqueue("a")
	p.Enqueue("b")
	p.Enqueue("c")
	if !p.Remove("b") {
		t.Fatalf("Remove(b)=false, want true")
	}
	got := p.IDs()
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("ids=%v, want [a c]", got)
	}
}

func TestPool_DequeuePairFIFO(t *testing.T) {
	p := NewPool()
	for _, id := range []domain.ConnectionID{"a", "b", "c"} {
		p.Enqueue(id)
	}
	a, b, ok := p.DequeuePair()
	if !ok || a != "a" || b != "b" {
		t.Fatalf("DequeuePair=(%q,%q,%v), want (a,b,true)", a, b, ok)
	}
	if p.Contains("a") || p.Contains("b") {
		t.Fatalf("dequeued ids still pooled: %v", p.IDs())
	}
}

func TestPool_DequeuePairSingletonStays(t *testing.T) {
	p := NewPool()
	if _, _, ok := p.DequeuePair(); ok {
		t.Fatalf("DequeuePair on empty pool returned ok")
	}
	p.Enqueue("solo")
	if _, _, ok := p.DequeuePair(); ok {
		t.Fatalf("DequeuePair on singleton returned ok")
	}
	if got := p.IDs(); len(got) != 1 || got[0] != "solo" {
		t.Fatalf("ids=%v, want [solo]", got)
	}
}

func TestPool_PushFrontKeepsPriority(t *testing.T) {
	p := NewPool()
	p.Enqueue("b")
	p.PushFront("a")
	if p.PushFront("b") {
		t.Fatalf("PushFront of queued id returned true")
	}
	if got := p.IDs(); got[0] != "a" || got[1] != "b" {
		t.Fatalf("ids=%v, want [a b]", got)
	}
}

func TestPool_RandomOpsNoDuplicates(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := NewPool()
	for i := 0; i < 5000; i++ {
		id := domain.ConnectionID(fmt.Sprintf("c%d", rng.Intn(20)))
		switch rng.Intn(3) {
		case 0:
			p.Enqueue(id)
		case 1:
			p.Remove(id)
		case 2:
			before := p.Len()
			a, b, ok := p.DequeuePair()
			switch {
			case ok && (a == b || p.Len() != before-2):
				t.Fatalf("bad pair (%q,%q) len %d -> %d", a, b, before, p.Len())
			case !ok && p.Len() != before:
				t.Fatalf("failed dequeue changed len %d -> %d", before, p.Len())
			}
		}
		seen := make(map[domain.ConnectionID]bool)
		for _, q := range p.IDs() {
			if seen[q] {
				t.Fatalf("duplicate %q in pool %v", q, p.IDs())
			}
			seen[q] = true
		}
		if len(seen) != p.Len() {
			t.Fatalf("index/order mismatch: %d vs %d", len(seen), p.Len())
		}
	}
}
