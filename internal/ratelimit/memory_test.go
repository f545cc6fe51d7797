package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterRejectsEleventhRequest(t *testing.T) {
	limiter := NewMemoryLimiter(10, time.Hour)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, limiter.Allow(ctx, "1.2.3.4"))
	}

	err := limiter.Allow(ctx, "1.2.3.4")

	var limitErr *LimitExceededError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 10, limitErr.Limit)
	assert.Greater(t, limitErr.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, limitErr.RetryAfter, time.Hour)
}

func TestMemoryLimiterWindowElapses(t *testing.T) {
	limiter := NewMemoryLimiter(10, time.Hour)
	ctx := context.Background()

	now := time.Now()
	limiter.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		require.NoError(t, limiter.Allow(ctx, "1.2.3.4"))
	}
	require.Error(t, limiter.Allow(ctx, "1.2.3.4"))

	// Advance past the window: the bucket resets lazily on next access.
	now = now.Add(time.Hour + time.Second)

	require.NoError(t, limiter.Allow(ctx, "1.2.3.4"))
	assert.Equal(t, 9, limiter.Remaining("1.2.3.4"))
}

func TestMemoryLimiterBucketsAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter(1, time.Hour)
	ctx := context.Background()

	require.NoError(t, limiter.Allow(ctx, "1.2.3.4:/grade_resume"))
	require.Error(t, limiter.Allow(ctx, "1.2.3.4:/grade_resume"))

	// Same client, different route.
	require.NoError(t, limiter.Allow(ctx, "1.2.3.4:/analyze"))
	// Different client, same route.
	require.NoError(t, limiter.Allow(ctx, "5.6.7.8:/grade_resume"))
}

func TestMemoryLimiterSlidingWindow(t *testing.T) {
	limiter := NewMemoryLimiter(2, time.Minute)
	ctx := context.Background()

	now := time.Now()
	limiter.now = func() time.Time { return now }

	require.NoError(t, limiter.Allow(ctx, "k"))
	now = now.Add(40 * time.Second)
	require.NoError(t, limiter.Allow(ctx, "k"))
	require.Error(t, limiter.Allow(ctx, "k"))

	// 61s after the first hit only the second remains in the window.
	now = now.Add(21 * time.Second)
	require.NoError(t, limiter.Allow(ctx, "k"))
}

func TestMemoryLimiterConcurrentAdmissions(t *testing.T) {
	const max = 16
	limiter := NewMemoryLimiter(max, time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < max*3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow(ctx, "shared") == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, max, admitted, "exactly max admissions, no race lets more through")
}
