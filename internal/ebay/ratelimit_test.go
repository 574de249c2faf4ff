package ebay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_DailyLimit(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1000, 1000, 3)
	ctx := context.Background()

	for range 3 {
		require.NoError(t, rl.Wait(ctx))
	}

	err := rl.Wait(ctx)
	require.ErrorIs(t, err, ErrDailyLimitReached)
	assert.EqualValues(t, 3, rl.DailyCount())
}

func TestRateLimiter_WindowReset(t *testing.T) {
	t.Parallel()

	now := time.Now()
	rl := NewRateLimiter(1000, 1000, 1, WithRateLimiterNowFunc(func() time.Time {
		return now
	}))
	ctx := context.Background()

	require.NoError(t, rl.Wait(ctx))
	require.ErrorIs(t, rl.Wait(ctx), ErrDailyLimitReached)

	// Advance past the rolling 24h window; the counter resets.
	now = now.Add(25 * time.Hour)
	require.NoError(t, rl.Wait(ctx))
	assert.EqualValues(t, 1, rl.DailyCount())
}

func TestRateLimiter_Usage(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1000, 1000, 10)
	ctx := context.Background()

	require.NoError(t, rl.Wait(ctx))
	require.NoError(t, rl.Wait(ctx))

	u := rl.Usage()
	assert.EqualValues(t, 2, u.DailyCount)
	assert.EqualValues(t, 10, u.DailyLimit)
	assert.EqualValues(t, 8, u.Remaining)
	assert.False(t, u.ResetAt.IsZero())
}

func TestRateLimiter_ContextCanceled(t *testing.T) {
	t.Parallel()

	// Zero rate means Wait can never be satisfied; cancellation must win.
	rl := NewRateLimiter(0, 0, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := rl.Wait(ctx)
	require.Error(t, err)
}
