// Package wakepair implements a single-producer/single-consumer
// notification primitive: a Waker and a Waiter connected by a monotonic
// event counter. Waits are ticketed, so signals issued before the matching
// wait registers are never lost, and N signals satisfy N waits in order.
package wakepair

import (
	"go.uber.org/atomic"

	"github.com/sawdustofmind/spsc-sync/pkg/spinwait"
)

// state is the shared half of a pair.
// Invariants:
//   - counter is monotone non-decreasing and incremented only by the Waker
//   - waiting is an advisory hint: true only while the Waiter is on (or
//     entering) the blocking path; it may transiently read true after the
//     Waiter has resumed
//   - park banks at most one wake token; an unpark before the park makes
//     the next park return immediately
type state struct {
	counter atomic.Uint64
	waiting atomic.Bool
	park    chan struct{}
}

func newState() *state {
	return &state{park: make(chan struct{}, 1)}
}

// unpark hands the waiter a wake token without blocking. A token already
// banked is collapsed into the new one; the counter is the ground truth
// for how many events happened.
func (s *state) unpark() {
	select {
	case s.park <- struct{}{}:
	default:
	}
}

func (s *state) block() {
	<-s.park
}

func (s *state) reached(target uint64) bool {
	return s.counter.Load() >= target
}

// Waker is the notifying end of a pair. The handle may be copied, but in
// SPSC use only one goroutine signals at a time.
type Waker interface {
	// Signal wakes the paired Waiter by incrementing the event counter
	// and handing it a wake token. Signals accumulate: each one satisfies
	// exactly one wait, including a wait that starts later.
	Signal()

	// Wake signals only if the Waiter is currently blocking.
	//
	// Wake races the Waiter registering itself: the Waiter may have
	// claimed its ticket but not yet raised the waiting hint, in which
	// case Wake does nothing and that ticket is never satisfied. Use it
	// only when the Waiter can detect the event through other state it
	// re-checks before blocking; otherwise use Signal.
	Wake()
}

// Waiter is the receiving end of a pair. It is not safe for concurrent
// use; exactly one goroutine waits.
type Waiter interface {
	// Wait blocks until the next event, using the default tuning.
	Wait()

	// WaitWithTuning blocks until the next event. Each call claims the
	// next ticket; if the counter already covers it, the call returns
	// without blocking.
	WaitWithTuning(spinwait.Tuning)

	// TryWait reports whether an event was already pending. On true the
	// ticket is consumed; on false no ticket is claimed.
	TryWait() bool
}

// New creates a connected Waker/Waiter pair with a zero event counter.
func New() (Waker, Waiter) {
	s := newState()
	return &waker{s: s}, &waiter{s: s}
}

type waker struct {
	s *state
}

func (w *waker) Signal() {
	w.s.counter.Inc()
	w.s.unpark()
}

func (w *waker) Wake() {
	if w.s.waiting.Load() {
		w.Signal()
	}
}

type waiter struct {
	s *state

	// next is advanced only by the waiter goroutine. Each wait call's
	// target is the ticket it claims here.
	next atomic.Uint64
}

func (w *waiter) Wait() {
	w.WaitWithTuning(spinwait.DefaultTuning)
}

func (w *waiter) WaitWithTuning(t spinwait.Tuning) {
	target := w.next.Inc()

	// Fast path: the event already happened, skip the waiting hint.
	if w.s.reached(target) {
		return
	}

	w.s.waiting.Store(true)
	defer w.s.waiting.Store(false)

	spinwait.Until(func() bool { return w.s.reached(target) }, w.s.block, t)
}

func (w *waiter) TryWait() bool {
	if !w.s.reached(w.next.Load() + 1) {
		return false
	}
	w.next.Inc()
	return true
}
