package wakepair

import (
	"go.uber.org/atomic"

	"github.com/sawdustofmind/spsc-sync/pkg/spinwait"
)

// UnitSender is the notifying end of a unit channel. Handles share state
// by pointer; in SPSC use only one goroutine sends at a time.
type UnitSender struct {
	s *state
}

// Send delivers one payload-free event. Sends accumulate, so an event
// delivered before the matching Recv starts is not lost.
func (u *UnitSender) Send() {
	u.s.counter.Inc()
	u.s.unpark()
}

// UnitReceiver is the receiving end of a unit channel. Exactly one
// goroutine receives.
type UnitReceiver struct {
	s    *state
	next atomic.Uint64
}

// Recv blocks until the next event, using the default tuning.
func (u *UnitReceiver) Recv() {
	u.RecvWithTuning(spinwait.DefaultTuning)
}

// RecvWithTuning blocks until the next event. Each call consumes exactly
// one Send, in order.
func (u *UnitReceiver) RecvWithTuning(t spinwait.Tuning) {
	target := u.next.Inc()
	spinwait.Until(func() bool { return u.s.reached(target) }, u.s.block, t)
}

// NewUnitChannel creates a payload-free channel: a wake-pair stripped of
// the waiting hint, for callers that only ever use accumulating sends.
// Send never blocks; only Recv waits.
func NewUnitChannel() (*UnitSender, *UnitReceiver) {
	s := newState()
	return &UnitSender{s: s}, &UnitReceiver{s: s}
}
