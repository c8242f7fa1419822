// Package rendezvous implements a zero-capacity synchronous channel for
// one producer and one consumer: Send blocks until the previous value has
// been taken, Recv blocks until a value is present.
//
// The channel is one shared slot plus two wake-pairs. The sender waits on
// the drain pair (receiver signals it after every take) and signals the
// fill pair after every put; the receiver mirrors it. The drain pair is
// pre-signaled once so the first Send never blocks.
package rendezvous

import (
	"go.uber.org/atomic"

	"github.com/sawdustofmind/spsc-sync/pkg/wakepair"
)

// slot is the single-element cell shared by both endpoints.
// Invariants:
//   - the sender writes v only while full is false
//   - the receiver reads v only while full is true
//   - full flips strictly empty -> full -> empty, the sender performing
//     every fill and the receiver every drain
//
// The cell itself carries no synchronization; the full flag's
// release/acquire pairing and the wake-pair handshake order all access.
type slot[T any] struct {
	v    T
	full atomic.Bool
}

func (s *slot[T]) markFull()    { s.full.Store(true) }
func (s *slot[T]) markEmpty()   { s.full.Store(false) }
func (s *slot[T]) isFull() bool { return s.full.Load() }

func (s *slot[T]) put(v T) {
	s.v = v
}

// take moves the value out, zeroing the cell so the channel never pins
// the last value.
func (s *slot[T]) take() T {
	v := s.v
	var zero T
	s.v = zero
	return v
}

type half[T any] struct {
	slot *slot[T]
	wake wakepair.Waker
	wait wakepair.Waiter
}

// Sender is the producing endpoint. It is owned by a single goroutine.
type Sender[T any] struct {
	h half[T]
}

// Send delivers v, blocking until the receiver has taken the previously
// sent value.
func (tx *Sender[T]) Send(v T) {
	// Wait until the slot is known empty.
	tx.h.wait.Wait()

	tx.h.slot.put(v)
	tx.h.slot.markFull()

	tx.h.wake.Signal()
}

// TrySend delivers v only if the slot is already drained. It reports
// false, leaving v with the caller, when the previous value has not been
// taken yet.
func (tx *Sender[T]) TrySend(v T) bool {
	if !tx.h.wait.TryWait() {
		return false
	}

	tx.h.slot.put(v)
	tx.h.slot.markFull()

	tx.h.wake.Signal()
	return true
}

// Receiver is the consuming endpoint. It is owned by a single goroutine.
type Receiver[T any] struct {
	h half[T]
}

// Recv blocks until a value is present and returns it.
func (rx *Receiver[T]) Recv() T {
	rx.h.wait.Wait()
	return rx.take()
}

// TryRecv returns the pending value, or the zero value and false when the
// slot is empty.
func (rx *Receiver[T]) TryRecv() (T, bool) {
	if !rx.h.wait.TryWait() {
		var zero T
		return zero, false
	}
	return rx.take(), true
}

func (rx *Receiver[T]) take() T {
	v := rx.h.slot.take()
	rx.h.slot.markEmpty()

	rx.h.wake.Signal()
	return v
}

// New creates a connected Sender/Receiver pair sharing one empty slot.
func New[T any]() (*Sender[T], *Receiver[T]) {
	fillWaker, fillWaiter := wakepair.New()
	drainWaker, drainWaiter := wakepair.New()
	s := new(slot[T])

	tx := &Sender[T]{h: half[T]{slot: s, wake: fillWaker, wait: drainWaiter}}
	rx := &Receiver[T]{h: half[T]{slot: s, wake: drainWaker, wait: fillWaiter}}

	// Bank one drain signal so the first Send sees the slot as already
	// drained.
	drainWaker.Signal()

	return tx, rx
}
