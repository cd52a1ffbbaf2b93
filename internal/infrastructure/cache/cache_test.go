package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/felixggj/happy-robot-fde/internal/domain/carrier"
	"github.com/felixggj/happy-robot-fde/internal/infrastructure/cache"
)

func newTestCache(t *testing.T) (cache.Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	c, err := cache.NewRedisCache(client, zap.NewNop())
	require.NoError(t, err)
	return c, mr
}

func TestJSONRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	name := "SUNSHINE TRUCKING LLC"
	stored := &carrier.VerificationResult{
		Eligible:  true,
		LegalName: &name,
		Status:    "active",
		RiskNotes: []string{},
	}

	key := cache.VerificationPrefix + "123456"
	require.NoError(t, c.SetJSON(ctx, key, stored, time.Hour))

	var got carrier.VerificationResult
	require.NoError(t, c.GetJSON(ctx, key, &got))
	assert.Equal(t, *stored, got)
}

func TestGetJSONMiss(t *testing.T) {
	c, _ := newTestCache(t)

	var got carrier.VerificationResult
	err := c.GetJSON(context.Background(), cache.VerificationPrefix+"absent", &got)
	require.Error(t, err)
	assert.IsType(t, cache.ErrCacheKeyNotFound{}, err)
}

func TestSetJSONExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	key := cache.VerificationPrefix + "999999"
	require.NoError(t, c.SetJSON(ctx, key, carrier.NotEligible(carrier.StatusNotFound), time.Minute))

	mr.FastForward(2 * time.Minute)

	var got carrier.VerificationResult
	err := c.GetJSON(ctx, key, &got)
	assert.IsType(t, cache.ErrCacheKeyNotFound{}, err)
}

func TestDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	key := cache.VerificationPrefix + "777"
	require.NoError(t, c.SetJSON(ctx, key, carrier.NotEligible(carrier.StatusError), time.Hour))
	require.NoError(t, c.Delete(ctx, key))

	var got carrier.VerificationResult
	err := c.GetJSON(ctx, key, &got)
	assert.IsType(t, cache.ErrCacheKeyNotFound{}, err)
}

func TestRateLimiterAllows(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	rl := cache.NewRedisRateLimiter(client, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := rl.Allow(ctx, "ip:10.0.0.1", 3, time.Second)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i)
	}

	allowed, err := rl.Allow(ctx, "ip:10.0.0.1", 3, time.Second)
	require.NoError(t, err)
	assert.False(t, allowed)

	// a different key has its own window
	allowed, err = rl.Allow(ctx, "ip:10.0.0.2", 3, time.Second)
	require.NoError(t, err)
	assert.True(t, allowed)
}
