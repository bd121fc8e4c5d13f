package cache

import (
	"strconv"
	"time"

	"sjsage522/livehsworker/logger"
)

// RateLimitGuard remembers that a host answered "rate limited" so that
// later fetches within BlockTime fail fast instead of hitting the site again.
// A nil *RateLimitGuard or nil cache disables the guard.
type RateLimitGuard struct {
	cache     CacheService
	key       string
	blockTime time.Duration
}

// NewRateLimitGuard creates a guard storing its marker under key
func NewRateLimitGuard(cache CacheService, key string, blockTime time.Duration) *RateLimitGuard {
	return &RateLimitGuard{
		cache:     cache,
		key:       key,
		blockTime: blockTime,
	}
}

// Blocked reports whether the marker is present
func (g *RateLimitGuard) Blocked() bool {
	if g == nil || g.cache == nil {
		return false
	}
	_, err := g.cache.Get(g.key)
	return err == nil
}

// Block sets the marker for BlockTime
func (g *RateLimitGuard) Block() {
	if g == nil || g.cache == nil {
		return
	}
	value := []byte(strconv.FormatInt(int64(g.blockTime/time.Second), 10))
	if err := g.cache.Set(g.key, value, g.blockTime); err != nil {
		logger.ForCache().Warn().Err(err).Str("key", g.key).Msg("Failed to store rate limit marker")
	}
}

// BlockTime returns how long a Block lasts
func (g *RateLimitGuard) BlockTime() time.Duration {
	if g == nil {
		return 0
	}
	return g.blockTime
}
