package quote

import (
	"context"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"papertrade/internal/domain"
	"papertrade/internal/util"
)

type stubProvider struct {
	mock.Mock
}

func (s *stubProvider) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	args := s.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "quote:AAA", cacheKey("aaa"))
	assert.Equal(t, "quote:AAA", cacheKey("  AAA "))
}

// An unreachable Redis must not break lookups: the cache is an
// optimization, the inner provider stays the source of truth.
func TestCachedProviderFallsThroughWhenRedisUnavailable(t *testing.T) {
	ctx := context.Background()

	inner := new(stubProvider)
	inner.On("Lookup", ctx, "AAA").
		Return(&domain.Quote{Symbol: "AAA", Name: "AAA"}, nil).Once()

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	cached := NewCachedProvider(inner, rdb, 0, util.GetLogger())

	quote, err := cached.Lookup(ctx, "AAA")

	require.NoError(t, err)
	assert.Equal(t, "AAA", quote.Symbol)
	inner.AssertExpectations(t)
}
