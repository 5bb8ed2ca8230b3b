package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterBackoff(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})
	limiter.now = func() time.Time { return now }

	assert.Zero(t, limiter.BackoffRemaining())

	limiter.RecordRateLimitError(0)
	assert.Equal(t, defaultBackoff, limiter.BackoffRemaining())

	limiter.RecordRateLimitError(3)
	assert.Equal(t, 3*time.Second, limiter.BackoffRemaining())

	now = now.Add(5 * time.Second)
	assert.Zero(t, limiter.BackoffRemaining())
}

func TestRateLimiterWaitRespectsContextDuringBackoff(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})
	limiter.RecordRateLimitError(30)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiterInvalidConfigUsesDefault(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{})
	require.NoError(t, limiter.Wait(context.Background()))
}
