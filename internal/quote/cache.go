package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"papertrade/internal/domain"
)

// CachedProvider wraps a Provider with a Redis cache so repeated lookups
// of the same symbol within the TTL do not hit the upstream source. Cache
// failures are logged and fall through to the inner provider; the cache is
// an optimization, never a source of truth.
type CachedProvider struct {
	inner  Provider
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedProvider creates a caching decorator around inner.
func NewCachedProvider(inner Provider, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedProvider {
	return &CachedProvider{inner: inner, rdb: rdb, ttl: ttl, logger: logger}
}

func cacheKey(symbol string) string {
	return fmt.Sprintf("quote:%s", strings.ToUpper(strings.TrimSpace(symbol)))
}

// Lookup returns the cached quote for symbol if present, otherwise asks
// the inner provider and stores the result.
func (c *CachedProvider) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	key := cacheKey(symbol)

	cached, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		var quote domain.Quote
		if err := json.Unmarshal([]byte(cached), &quote); err == nil {
			return &quote, nil
		}
		c.logger.Warn("dropping malformed cached quote", "key", key)
	} else if err != redis.Nil {
		c.logger.Warn("quote cache read failed", "key", key, "error", err)
	}

	quote, err := c.inner.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(quote)
	if err == nil {
		if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("quote cache write failed", "key", key, "error", err)
		}
	}

	return quote, nil
}
