// Package compaction provides the auto-compaction trigger policy and an
// optional background scheduler for the map engine. The engine's
// internal/engine package itself performs the actual log rewrite; this
// package only decides when that rewrite should happen.
package compaction

import (
	"context"
	"sync"
	"time"
)

// DefaultMinSize is the minimum number of live+tombstone records before
// auto-compaction is even considered.
const DefaultMinSize = 1000

// DefaultThreshold is the tombstone-ratio above which auto-compaction
// fires, once MinSize is reached.
const DefaultThreshold = 0.3

// Policy decides whether a mutating operation should trigger a
// compaction, based on the live/tombstone counts it is given.
type Policy struct {
	// AutoCompact enables the inline trigger evaluated on every mutating
	// operation. Defaults to true.
	AutoCompact bool

	// Threshold is the tombstones/(live+tombstones) ratio that must be
	// exceeded, once MinSize is reached, for ShouldTrigger to return true.
	Threshold float64

	// MinSize is the minimum live+tombstone count before the ratio check
	// applies at all, avoiding needless compaction of small tables.
	MinSize int
}

// DefaultPolicy returns the policy spec.md §4.4 calls for by default.
func DefaultPolicy() Policy {
	return Policy{AutoCompact: true, Threshold: DefaultThreshold, MinSize: DefaultMinSize}
}

// ShouldTrigger reports whether, given the current live and tombstone
// counts, an auto-compaction should run now.
func (p Policy) ShouldTrigger(live, tombstones int) bool {
	if !p.AutoCompact {
		return false
	}
	total := live + tombstones
	if total < p.MinSize {
		return false
	}
	return float64(tombstones)/float64(total) > p.Threshold
}

// Scheduler runs a supplied compact function on a fixed interval, for
// callers that want compaction driven by wall-clock time in addition to
// (or instead of) the inline per-operation trigger. It is a thin wrapper
// over time.Ticker; callers must call Stop on engine shutdown.
type Scheduler struct {
	interval time.Duration
	compact  func(ctx context.Context) error
	onError  func(error)

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
}

// NewScheduler builds a Scheduler that calls compact every interval.
// onError, if non-nil, receives errors returned by compact; a nil
// onError silently drops them.
func NewScheduler(interval time.Duration, compact func(ctx context.Context) error, onError func(error)) *Scheduler {
	return &Scheduler{interval: interval, compact: compact, onError: onError}
}

// Start launches the background ticker. Calling Start twice without an
// intervening Stop is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil && !s.stopped {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.stopped = false

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.compact(ctx); err != nil && s.onError != nil {
					s.onError(err)
				}
			}
		}
	}()
}

// Stop cancels the background ticker. Safe to call multiple times and
// safe to call when the scheduler was never started.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil || s.stopped {
		return
	}
	s.cancel()
	s.stopped = true
}
