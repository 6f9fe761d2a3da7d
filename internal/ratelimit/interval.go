package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Interval enforces a minimum spacing between calls, measured from the end
// of one call to the start of the next. A single Interval is meant to be
// shared by pointer between every client in the process.
type Interval struct {
	slot     chan struct{}
	mu       sync.Mutex
	lastCall time.Time
	min      time.Duration
	now      func() time.Time
	metrics  *IntervalMetrics
}

// IntervalMetrics tracks statistics about interval limiter usage.
type IntervalMetrics struct {
	acquired  atomic.Int64
	completed atomic.Int64
	cancelled atomic.Int64
	waited    atomic.Int64
}

// NewInterval creates a limiter with the given minimum spacing.
// The last-call timestamp starts at zero so the first call never waits.
func NewInterval(min time.Duration) *Interval {
	return &Interval{
		slot:    make(chan struct{}, 1),
		min:     min,
		now:     time.Now,
		metrics: &IntervalMetrics{},
	}
}

// MinInterval returns the configured spacing.
func (l *Interval) MinInterval() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.min
}

// SetMinInterval updates the spacing for subsequent calls.
func (l *Interval) SetMinInterval(min time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.min = min
}

// LastCall returns the timestamp recorded by the most recent Record.
func (l *Interval) LastCall() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastCall
}

// Remaining returns how long a caller would have to wait right now.
func (l *Interval) Remaining() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remainingLocked()
}

func (l *Interval) remainingLocked() time.Duration {
	if l.lastCall.IsZero() {
		return 0
	}
	wait := l.min - l.now().Sub(l.lastCall)
	if wait < 0 {
		return 0
	}
	return wait
}

// Throttle blocks until the minimum interval has elapsed since the last
// recorded call, or the context is cancelled.
// Throttle alone does not serialize callers; use Acquire for that.
func (l *Interval) Throttle(ctx context.Context) error {
	wait := l.Remaining()
	if wait <= 0 {
		return ctx.Err()
	}

	l.metrics.waited.Add(int64(wait))
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Record stores the current time as the last call.
func (l *Interval) Record() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastCall = l.now()
}

// Slot is the exclusive right to make one call. Exactly one of Release or
// Abort frees it; later calls are no-ops.
type Slot struct {
	l    *Interval
	once sync.Once
}

// Release records the call and frees the slot. Call it once the outbound
// call has completed, whether it succeeded or not.
func (s *Slot) Release() {
	s.once.Do(func() {
		s.l.Record()
		s.l.metrics.completed.Add(1)
		<-s.l.slot
	})
}

// Abort frees the slot without recording, for calls that were never sent.
func (s *Slot) Abort() {
	s.once.Do(func() {
		s.l.metrics.cancelled.Add(1)
		<-s.l.slot
	})
}

// Acquire takes the exclusive call slot and throttles, so the whole
// throttle, dispatch, record sequence is serialized across goroutines.
// If the context is cancelled while waiting, the slot is freed without
// recording and the context error is returned.
func (l *Interval) Acquire(ctx context.Context) (*Slot, error) {
	select {
	case l.slot <- struct{}{}:
	case <-ctx.Done():
		l.metrics.cancelled.Add(1)
		return nil, ctx.Err()
	}

	if err := l.Throttle(ctx); err != nil {
		<-l.slot
		l.metrics.cancelled.Add(1)
		return nil, err
	}
	l.metrics.acquired.Add(1)

	return &Slot{l: l}, nil
}

// Metrics returns a snapshot of the current limiter statistics.
func (l *Interval) Metrics() IntervalSnapshot {
	return IntervalSnapshot{
		Acquired:  l.metrics.acquired.Load(),
		Completed: l.metrics.completed.Load(),
		Cancelled: l.metrics.cancelled.Load(),
		Waited:    time.Duration(l.metrics.waited.Load()),
	}
}

// IntervalSnapshot is a point-in-time capture of interval limiter statistics.
type IntervalSnapshot struct {
	// Acquired is the number of calls that were let through.
	Acquired int64
	// Completed is the number of calls that were recorded.
	Completed int64
	// Cancelled is the number of calls abandoned while waiting.
	Cancelled int64
	// Waited is the total time spent throttling.
	Waited time.Duration
}
