// Package ratelimiter provides client-side throttling primitives: a token
// bucket for bursty provider APIs and a pacer for strictly sequential,
// spaced-out call loops.
package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// RateLimiter limits the rate of operations against an external API.
type RateLimiter interface {
	TakeToken() bool
	Wait()
}

// TokenBucket implements a refillable token bucket.
type TokenBucket struct {
	capacity   int64
	tokens     int64
	refillRate int64
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a bucket holding capacity tokens, refilled at
// refillRate tokens per second.
func NewTokenBucket(capacity, refillRate int64) *TokenBucket {
	if capacity <= 0 {
		capacity = 1
	}
	if refillRate <= 0 {
		refillRate = 1
	}

	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// TakeToken consumes a token if one is available.
func (tb *TokenBucket) TakeToken() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)

	tokensToAdd := int64(elapsed.Seconds()) * tb.refillRate
	tb.tokens = min(tb.capacity, tb.tokens+tokensToAdd)
	tb.lastRefill = now

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available.
func (tb *TokenBucket) Wait() {
	waitTime := time.Second / time.Duration(tb.refillRate)
	if waitTime < 100*time.Millisecond {
		waitTime = 100 * time.Millisecond
	}

	for !tb.TakeToken() {
		time.Sleep(waitTime)
	}
}

// Pacer enforces a minimum interval between successive calls made by a
// single worker loop. An extra cooldown can be injected when the remote
// service signals rate limiting; it applies once, before the next call.
type Pacer struct {
	interval time.Duration
	sleep    func(context.Context, time.Duration) error

	mu       sync.Mutex
	lastCall time.Time
	cooldown time.Duration
}

// NewPacer creates a pacer with the given minimum inter-call interval.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{
		interval: interval,
		sleep:    sleepCtx,
	}
}

// SetSleepFunc replaces the pacer's sleep function. Intended for tests.
func (p *Pacer) SetSleepFunc(sleep func(context.Context, time.Duration) error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sleep = sleep
}

// Cooldown schedules an additional delay before the next call.
func (p *Pacer) Cooldown(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if d > p.cooldown {
		p.cooldown = d
	}
}

// Wait blocks until the minimum interval since the previous call has
// elapsed, plus any pending cooldown. It returns early with the context's
// error if the context is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	delay := p.interval + p.cooldown
	if !p.lastCall.IsZero() {
		if since := time.Since(p.lastCall); since < delay {
			delay -= since
		} else {
			delay = p.cooldown
		}
	} else if p.cooldown == 0 {
		// First call goes out immediately.
		delay = 0
	}
	p.cooldown = 0
	sleep := p.sleep
	p.mu.Unlock()

	if delay > 0 {
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}

	p.mu.Lock()
	p.lastCall = time.Now()
	p.mu.Unlock()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
