package compaction

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShouldTriggerRespectsMinSizeAndThreshold(t *testing.T) {
	p := DefaultPolicy()

	require.False(t, p.ShouldTrigger(10, 900), "below MinSize")
	require.False(t, p.ShouldTrigger(701, 299), "below threshold ratio")
	require.True(t, p.ShouldTrigger(600, 401), "above threshold ratio and MinSize")
}

func TestShouldTriggerDisabledWhenAutoCompactOff(t *testing.T) {
	p := Policy{AutoCompact: false, Threshold: 0.1, MinSize: 1}
	require.False(t, p.ShouldTrigger(0, 1000))
}

func TestSchedulerRunsAndStops(t *testing.T) {
	var calls int32
	s := NewScheduler(10*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, nil)

	s.Start(context.Background())
	time.Sleep(55 * time.Millisecond)
	s.Stop()

	require.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(2))

	after := atomic.LoadInt32(&calls)
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, after, atomic.LoadInt32(&calls), "no more ticks after Stop")
}

func TestSchedulerReportsErrors(t *testing.T) {
	errCh := make(chan error, 1)
	s := NewScheduler(10*time.Millisecond, func(ctx context.Context) error {
		return context.DeadlineExceeded
	}, func(err error) {
		select {
		case errCh <- err:
		default:
		}
	})

	s.Start(context.Background())
	defer s.Stop()

	select {
	case err := <-errCh:
		require.Equal(t, context.DeadlineExceeded, err)
	case <-time.After(200 * time.Millisecond):
		t.Fatal("scheduler never reported the error")
	}
}
