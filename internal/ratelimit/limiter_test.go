package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucket_Allow(t *testing.T) {
	limiter := NewTokenBucket(5, time.Second)

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow(), "request %d should be allowed", i+1)
	}

	assert.False(t, limiter.Allow(), "request 6 should be blocked")

	m := limiter.Metrics()
	assert.Equal(t, int64(6), m.TotalRequests)
	assert.Equal(t, int64(5), m.AllowedRequests)
	assert.Equal(t, int64(1), m.DeniedRequests)
}

func TestTokenBucket_Wait(t *testing.T) {
	limiter := NewTokenBucket(5, 100*time.Millisecond)

	for i := 0; i < 5; i++ {
		err := limiter.Wait(context.Background())
		assert.NoError(t, err)
	}
}

func TestTokenBucket_Wait_ContextCancellation(t *testing.T) {
	limiter := NewTokenBucket(1, time.Second)

	err := limiter.Wait(context.Background())
	assert.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err = limiter.Wait(ctx)
	assert.Error(t, err)
	assert.Equal(t, int64(1), limiter.Metrics().DeniedRequests)
}

func TestTokenBucket_Concurrent(t *testing.T) {
	limiter := NewTokenBucket(100, time.Second)

	var wg sync.WaitGroup
	results := make(chan bool, 200)

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- limiter.Allow()
		}()
	}

	wg.Wait()
	close(results)

	allowed := 0
	for ok := range results {
		if ok {
			allowed++
		}
	}

	assert.LessOrEqual(t, allowed, 100, "should not allow more than 100 requests")
}

func TestTokenBucket_SetLimit(t *testing.T) {
	limiter := NewTokenBucket(1, time.Minute)

	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())

	limiter.SetLimit(1000, time.Second)

	time.Sleep(100 * time.Millisecond)
	assert.True(t, limiter.Allow(), "should allow after limit increase and time passage")
}
