package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketTakeToken(t *testing.T) {
	tb := NewTokenBucket(2, 1)

	assert.True(t, tb.TakeToken())
	assert.True(t, tb.TakeToken())
	assert.False(t, tb.TakeToken(), "bucket should be empty after capacity draws")
}

func TestTokenBucketDefaults(t *testing.T) {
	tb := NewTokenBucket(0, 0)
	assert.True(t, tb.TakeToken(), "zero-valued bucket should still hold one token")
}

func TestPacerSpacing(t *testing.T) {
	p := NewPacer(600 * time.Millisecond)

	var delays []time.Duration
	p.SetSleepFunc(func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	})

	ctx := context.Background()
	require.NoError(t, p.Wait(ctx))
	require.NoError(t, p.Wait(ctx))

	// First call goes out immediately, second waits out the interval.
	require.Len(t, delays, 1)
	assert.InDelta(t, float64(600*time.Millisecond), float64(delays[0]), float64(50*time.Millisecond))
}

func TestPacerCooldown(t *testing.T) {
	p := NewPacer(100 * time.Millisecond)

	var delays []time.Duration
	p.SetSleepFunc(func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	})

	ctx := context.Background()
	require.NoError(t, p.Wait(ctx))

	p.Cooldown(2 * time.Second)
	require.NoError(t, p.Wait(ctx))
	require.NotEmpty(t, delays)
	assert.GreaterOrEqual(t, delays[len(delays)-1], 2*time.Second)

	// Cooldown applies once.
	require.NoError(t, p.Wait(ctx))
	assert.Less(t, delays[len(delays)-1], 2*time.Second)
}

func TestPacerCancelled(t *testing.T) {
	p := NewPacer(10 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Wait(ctx))
	cancel()

	err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
