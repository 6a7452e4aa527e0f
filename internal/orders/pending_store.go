// Package orders keeps delivery orders that are waiting for dispatch.
package orders

import (
	"delivery-dispatch-service/internal/domain"
	"errors"
	"fmt"
)

var ErrNonMonotonicKey = errors.New("sequence key must increase")

type pending struct {
	seq   int64
	order domain.Order
}

// PendingStore is a FIFO of orders keyed by a strictly increasing sequence
// number. Because keys only grow, insertion order is also key order and a
// queue is enough to always hand out the smallest key first.
type PendingStore struct {
	items   []pending
	head    int
	lastSeq int64
	started bool
}

func NewPendingStore() *PendingStore {
	return &PendingStore{}
}

// Insert appends an order. seq must be greater than every key inserted before.
func (s *PendingStore) Insert(seq int64, order domain.Order) error {
	if s.started && seq <= s.lastSeq {
		return fmt.Errorf("insert order seq=%d after seq=%d: %w", seq, s.lastSeq, ErrNonMonotonicKey)
	}
	s.items = append(s.items, pending{seq: seq, order: order})
	s.lastSeq = seq
	s.started = true
	return nil
}

// RemoveEarliest pops the order with the smallest sequence key.
// ok is false when nothing is pending.
func (s *PendingStore) RemoveEarliest() (seq int64, order domain.Order, ok bool) {
	if s.head >= len(s.items) {
		return 0, domain.Order{}, false
	}

	p := s.items[s.head]
	s.items[s.head] = pending{}
	s.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if s.head > 32 && s.head*2 >= len(s.items) {
		s.items = append([]pending(nil), s.items[s.head:]...)
		s.head = 0
	}

	return p.seq, p.order, true
}

// Snapshot returns the pending orders in ascending sequence order.
func (s *PendingStore) Snapshot() []domain.Order {
	out := make([]domain.Order, 0, s.Len())
	for _, p := range s.items[s.head:] {
		out = append(out, p.order)
	}
	return out
}

func (s *PendingStore) Len() int { return len(s.items) - s.head }
