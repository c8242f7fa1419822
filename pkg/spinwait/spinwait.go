// Package spinwait implements an adaptive three-phase wait: busy spin,
// cooperative yield, then block. It trades CPU for wakeup latency and is
// meant for waits that usually resolve within nanoseconds.
package spinwait

import "runtime"

// Tuning bounds the spinning phases of Until. The fields are iteration
// counts, not wall time; either may be zero to skip that phase entirely.
type Tuning struct {
	busyIters  uint32
	yieldIters uint32
}

// DefaultTuning is biased towards latency: a long pure spin, a short
// yield phase, then parking.
var DefaultTuning = Tuning{busyIters: 2048, yieldIters: 256}

// NewTuning creates a custom tuning configuration.
func NewTuning(busyIters, yieldIters uint32) Tuning {
	return Tuning{busyIters: busyIters, yieldIters: yieldIters}
}

// WithBusyIters sets the maximum length of the initial pure spin phase.
func (t Tuning) WithBusyIters(n uint32) Tuning {
	t.busyIters = n
	return t
}

// WithYieldIters sets the maximum length of the yield phase.
func (t Tuning) WithYieldIters(n uint32) Tuning {
	t.yieldIters = n
	return t
}

// BusyIters reports the busy spin bound.
func (t Tuning) BusyIters() uint32 { return t.busyIters }

// YieldIters reports the yield phase bound.
func (t Tuning) YieldIters() uint32 { return t.yieldIters }

// Until blocks the calling goroutine until done reports true.
//
// Phase 1 re-checks done in a tight loop, at most busyIters times. Phase 2
// re-checks at most yieldIters times, yielding the processor between
// checks. Phase 3 alternates block and re-check forever.
//
// done must be cheap and idempotent, and it must carry the acquire
// ordering that pairs with the notifier's release store; Until adds no
// fences of its own. block may return spuriously: the loop re-checks.
func Until(done func() bool, block func(), t Tuning) {
	// The predicate load doubles as the spin body.
	for i := uint32(0); i < t.busyIters; i++ {
		if done() {
			return
		}
	}

	for i := uint32(0); i < t.yieldIters; i++ {
		if done() {
			return
		}
		runtime.Gosched()
	}

	for {
		if done() {
			return
		}
		block()
	}
}
