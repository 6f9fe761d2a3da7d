package ratelimit

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterval_FirstCallDoesNotWait(t *testing.T) {
	limiter := NewInterval(time.Second)

	assert.True(t, limiter.LastCall().IsZero())
	assert.Equal(t, time.Duration(0), limiter.Remaining())

	start := time.Now()
	require.NoError(t, limiter.Throttle(context.Background()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestInterval_ThrottleAfterRecord(t *testing.T) {
	limiter := NewInterval(100 * time.Millisecond)

	limiter.Record()
	recorded := limiter.LastCall()
	assert.Greater(t, limiter.Remaining(), time.Duration(0))

	require.NoError(t, limiter.Throttle(context.Background()))
	assert.GreaterOrEqual(t, time.Since(recorded), 100*time.Millisecond)
	assert.Greater(t, limiter.Metrics().Waited, time.Duration(0))
}

func TestInterval_ThrottleUsesClock(t *testing.T) {
	limiter := NewInterval(time.Second)
	now := time.Unix(1000, 0)
	limiter.now = func() time.Time { return now }

	limiter.Record()
	now = now.Add(400 * time.Millisecond)

	assert.Equal(t, 600*time.Millisecond, limiter.Remaining())

	now = now.Add(time.Second)
	assert.Equal(t, time.Duration(0), limiter.Remaining())
}

func TestInterval_ThrottleCancelled(t *testing.T) {
	limiter := NewInterval(time.Second)
	limiter.Record()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := limiter.Throttle(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInterval_ThrottleAlreadyCancelled(t *testing.T) {
	limiter := NewInterval(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, limiter.Throttle(ctx), context.Canceled)
}

func TestInterval_AcquireRecordsOnRelease(t *testing.T) {
	limiter := NewInterval(50 * time.Millisecond)

	slot, err := limiter.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, limiter.LastCall().IsZero(), "record happens after the call, not before")

	slot.Release()
	slot.Release()
	slot.Abort()

	assert.False(t, limiter.LastCall().IsZero())
	m := limiter.Metrics()
	assert.Equal(t, int64(1), m.Acquired)
	assert.Equal(t, int64(1), m.Completed)
}

func TestInterval_AcquireCancelledFreesSlot(t *testing.T) {
	limiter := NewInterval(time.Second)
	limiter.Record()
	last := limiter.LastCall()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := limiter.Acquire(ctx)
	assert.Error(t, err)
	assert.Equal(t, last, limiter.LastCall(), "cancelled call must not be recorded")
	assert.Equal(t, int64(1), limiter.Metrics().Cancelled)

	limiter.SetMinInterval(0)
	slot, err := limiter.Acquire(context.Background())
	require.NoError(t, err, "slot must be free after cancellation")
	slot.Release()
}

func TestInterval_AcquireWaitsForSlot(t *testing.T) {
	limiter := NewInterval(0)

	slot, err := limiter.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = limiter.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	slot.Release()
}

func TestInterval_AbortDoesNotRecord(t *testing.T) {
	limiter := NewInterval(time.Second)

	slot, err := limiter.Acquire(context.Background())
	require.NoError(t, err)
	slot.Abort()
	slot.Release()

	assert.True(t, limiter.LastCall().IsZero())
	assert.Equal(t, int64(1), limiter.Metrics().Cancelled)
	assert.Equal(t, int64(0), limiter.Metrics().Completed)

	slot, err = limiter.Acquire(context.Background())
	require.NoError(t, err, "aborted slot must be free")
	slot.Release()
}

func TestInterval_BackToBackCalls(t *testing.T) {
	interval := 100 * time.Millisecond
	limiter := NewInterval(interval)

	slot, err := limiter.Acquire(context.Background())
	require.NoError(t, err)
	slot.Release()
	firstRecord := limiter.LastCall()

	slot, err = limiter.Acquire(context.Background())
	require.NoError(t, err)
	secondDispatch := time.Now()
	slot.Release()

	assert.GreaterOrEqual(t, secondDispatch.Sub(firstRecord), interval)
}

func TestInterval_ConcurrentDispatchSpacing(t *testing.T) {
	interval := 30 * time.Millisecond
	limiter := NewInterval(interval)

	const callers = 8
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		dispatches []time.Time
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			slot, err := limiter.Acquire(context.Background())
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			dispatches = append(dispatches, time.Now())
			mu.Unlock()
			time.Sleep(time.Millisecond)
			slot.Release()
		}()
	}
	wg.Wait()

	require.Len(t, dispatches, callers)
	sort.Slice(dispatches, func(i, j int) bool { return dispatches[i].Before(dispatches[j]) })
	for i := 1; i < len(dispatches); i++ {
		assert.GreaterOrEqual(t, dispatches[i].Sub(dispatches[i-1]), interval, "dispatch %d too early", i)
	}
	assert.Equal(t, int64(callers), limiter.Metrics().Completed)
}

func TestInterval_SharedAcrossUsers(t *testing.T) {
	shared := NewInterval(50 * time.Millisecond)
	a, b := shared, shared

	slot, err := a.Acquire(context.Background())
	require.NoError(t, err)
	slot.Release()

	assert.Greater(t, b.Remaining(), time.Duration(0))
	assert.Equal(t, 50*time.Millisecond, b.MinInterval())
}
