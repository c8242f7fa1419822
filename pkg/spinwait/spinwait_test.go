package spinwait

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDefaultTuning(t *testing.T) {
	require.Equal(t, uint32(2048), DefaultTuning.BusyIters())
	require.Equal(t, uint32(256), DefaultTuning.YieldIters())
}

func TestTuningBuilder(t *testing.T) {
	tu := NewTuning(8, 4)
	require.Equal(t, uint32(8), tu.BusyIters())
	require.Equal(t, uint32(4), tu.YieldIters())

	parkOnly := tu.WithBusyIters(0).WithYieldIters(0)
	require.Zero(t, parkOnly.BusyIters())
	require.Zero(t, parkOnly.YieldIters())

	// setters return copies
	require.Equal(t, uint32(8), tu.BusyIters())
	require.Equal(t, uint32(4), tu.YieldIters())
}

func TestUntilPredicateAlreadyTrue(t *testing.T) {
	Until(func() bool { return true }, func() {
		t.Fatal("block invoked though the predicate was already true")
	}, NewTuning(0, 0))
}

func TestUntilReleasedDuringSpin(t *testing.T) {
	var flag atomic.Bool
	wake := make(chan struct{}, 1)
	go func() {
		time.Sleep(time.Millisecond)
		flag.Store(true)
		wake <- struct{}{}
	}()

	// A spin bound far beyond what a millisecond burns; the block path
	// stays live in case the scheduler stalls the spinner anyway.
	Until(flag.Load, func() { <-wake }, DefaultTuning.WithBusyIters(1<<30))
	require.True(t, flag.Load())
}

func TestUntilYieldPhase(t *testing.T) {
	var flag atomic.Bool
	wake := make(chan struct{}, 1)
	go func() {
		time.Sleep(time.Millisecond)
		flag.Store(true)
		wake <- struct{}{}
	}()

	Until(flag.Load, func() { <-wake }, NewTuning(0, 1<<30))
	require.True(t, flag.Load())
}

func TestUntilParkOnly(t *testing.T) {
	var flag atomic.Bool
	wake := make(chan struct{}, 1)
	go func() {
		time.Sleep(10 * time.Millisecond)
		flag.Store(true)
		wake <- struct{}{}
	}()

	blocks := 0
	Until(flag.Load, func() {
		blocks++
		<-wake
	}, NewTuning(0, 0))
	require.True(t, flag.Load())
	require.GreaterOrEqual(t, blocks, 1)
}

func TestUntilSpuriousBlockReturns(t *testing.T) {
	var flag atomic.Bool
	calls := 0
	Until(flag.Load, func() {
		calls++
		if calls == 3 {
			flag.Store(true)
		}
	}, NewTuning(0, 0))
	require.Equal(t, 3, calls)
}
