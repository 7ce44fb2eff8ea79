// Package server bounds how fast a single connection may inject payloads
// into its room.
package server

import (
	"math"
	"sync"
	"time"
)

// messageLimiter is a continuously refilled token bucket sized from the
// relay's RateLimitConfig: a connection may burst cfg.Burst payloads, then
// sustain cfg.Burst per cfg.RefillInterval. Messages over the limit are
// dropped before the broadcast pass and counted in the relay metrics.
type messageLimiter struct {
	mu         sync.Mutex
	tokens     float64
	burst      float64
	perSecond  float64
	lastRefill time.Time
}

func newMessageLimiter(cfg RateLimitConfig) *messageLimiter {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}

	return &messageLimiter{
		tokens:     float64(cfg.Burst),
		burst:      float64(cfg.Burst),
		perSecond:  float64(cfg.Burst) / cfg.RefillInterval.Seconds(),
		lastRefill: time.Now(),
	}
}

func (ml *messageLimiter) allow() bool {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := time.Now()
	if elapsed := now.Sub(ml.lastRefill).Seconds(); elapsed > 0 {
		ml.tokens = math.Min(ml.burst, ml.tokens+elapsed*ml.perSecond)
	}
	ml.lastRefill = now

	if ml.tokens < 1 {
		return false
	}

	ml.tokens--
	return true
}
