package app

import (
	"container/list"

	"github.com/dkeye/Roulette/internal/domain"
)

// Pool is an ordered set of connections waiting for a partner.
// Oldest first. Not safe for concurrent use; the Broker serializes access.
type Pool struct {
	order *list.List
	index map[domain.ConnectionID]*list.Element
}

func NewPool() *Pool {
	return &Pool{
		order: list.New(),
		index: make(map[domain.ConnectionID]*list.Element),
	}
}

// Enqueue appends id to the tail. Returns false if id is already queued.
func (p *Pool) Enqueue(id domain.ConnectionID) bool {
	if _, ok := p.index[id]; ok {
		return false
	}
	p.index[id] = p.order.PushBack(id)
	return true
}

// PushFront puts id back at the head, where it keeps its match priority.
func (p *Pool) PushFront(id domain.ConnectionID) bool {
	if _, ok := p.index[id]; ok {
		return false
	}
	p.index[id] = p.order.PushFront(id)
	return true
}

// Remove drops id from the pool. Absent ids are ignored.
func (p *Pool) Remove(id domain.ConnectionID) bool {
	el, ok := p.index[id]
	if !ok {
		return false
	}
	p.order.Remove(el)
	delete(p.index, id)
	return true
}

// DequeuePair removes and returns the two oldest ids.
// With fewer than two queued nothing is removed.
func (p *Pool) DequeuePair() (domain.ConnectionID, domain.ConnectionID, bool) {
	if p.order.Len() < 2 {
		return "", "", false
	}
	a := p.pop()
	b := p.pop()
	return a, b, true
}

func (p *Pool) pop() domain.ConnectionID {
	el := p.order.Front()
	id := el.Value.(domain.ConnectionID)
	p.order.Remove(el)
	delete(p.index, id)
	return id
}

func (p *Pool) Contains(id domain.ConnectionID) bool {
	_, ok := p.index[id]
	return ok
}

func (p *Pool) Len() int { return p.order.Len() }

// IDs returns the queued ids in match order.
func (p *Pool) IDs() []domain.ConnectionID {
	out := make([]domain.ConnectionID, 0, p.order.Len())
	for el := p.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(domain.ConnectionID))
	}
	return out
}
