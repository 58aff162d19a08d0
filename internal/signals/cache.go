package signals

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-prioritizer/internal/domain"
)

// CachedSource caches successful signal results in Redis in front of another
// source. Failed signals are never cached. Redis being unreachable is not an
// error: lookups fall through to the inner source and writes are best-effort.
type CachedSource struct {
	inner  Source
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSource wraps inner with a Redis-backed cache.
func NewCachedSource(inner Source, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedSource {
	return &CachedSource{inner: inner, client: client, ttl: ttl, logger: logger}
}

// Generate returns a cached result when present, otherwise delegates and
// stores the outcome.
func (c *CachedSource) Generate(ctx context.Context, text string, tier domain.CustomerTier, slaHoursRemaining float64) *domain.Signals {
	key := cacheKey(text, tier, slaHoursRemaining)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached domain.Signals
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached
		}
	} else if err != redis.Nil {
		c.logger.Warn("signal cache lookup failed", zap.Error(err))
	}

	result := c.inner.Generate(ctx, text, tier, slaHoursRemaining)
	if result.Failed() {
		return result
	}

	if raw, err := json.Marshal(result); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warn("signal cache write failed", zap.Error(err))
		}
	}
	return result
}

// cacheKey digests the full generation input. SLA hours participate because
// they influence the urgency heuristic.
func cacheKey(text string, tier domain.CustomerTier, slaHoursRemaining float64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%.2f", text, tier, slaHoursRemaining)))
	return "signals:" + hex.EncodeToString(sum[:])
}
