package redis

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/angelmondragon/trainingdesk-backend/pkg/config"
	"github.com/angelmondragon/trainingdesk-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	client, err := New(context.Background(), config.RedisConfig{Address: mr.Addr(), PoolSize: 2}, logg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)

	allowed, count, err := client.FixedWindowAllow(ctx, "login:ip:10.0.0.1", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, time.Minute, mr.TTL("td:rate_limit:login:ip:10.0.0.1"))

	allowed, count, err = client.FixedWindowAllow(ctx, "login:ip:10.0.0.1", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.EqualValues(t, 2, count)

	allowed, _, err = client.FixedWindowAllow(ctx, "login:ip:10.0.0.1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed, "third request should exceed the limit")

	mr.FastForward(time.Minute + time.Second)
	allowed, count, err = client.FixedWindowAllow(ctx, "login:ip:10.0.0.1", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "window should reset after ttl")
	assert.EqualValues(t, 1, count)
}

func TestSetNXGetDel(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	key := client.IdempotencyKey("products.create", "abc")
	ok, err := client.SetNX(ctx, key, "first", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.SetNX(ctx, key, "second", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := client.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	require.NoError(t, client.Del(ctx, key))
	_, err = client.Get(ctx, key)
	assert.True(t, IsNil(err), "expected redis nil after delete, got %v", err)
}

func TestSetOverwritesReservation(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)

	key := client.IdempotencyKey("sessions.start", "k1")
	ok, err := client.SetNX(ctx, key, "pending", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, client.Set(ctx, key, "final", 30*time.Minute))
	got, err := client.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "final", got)
	assert.Equal(t, 30*time.Minute, mr.TTL(key))

	assert.Error(t, (&Client{}).Set(ctx, key, "x", time.Minute))
}

func TestNewFailsWithoutEndpoint(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{}, nil)
	require.Error(t, err)
}

func TestNewFailsOnUnreachableServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(context.Background(), config.RedisConfig{Address: addr, DialTimeout: 100 * time.Millisecond}, nil)
	require.Error(t, err)
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	ctx := context.Background()
	assert.Error(t, client.Ping(ctx))
	_, err := client.Get(ctx, "k")
	assert.Error(t, err)
	assert.NoError(t, client.Close())
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	assert.Equal(t, "td:idempotency:scope:id", client.IdempotencyKey("scope", "id"))
	assert.Equal(t, "td:rate_limit:scope", client.RateLimitKey(" scope "))
	assert.Equal(t, "td:idempotency:scope", client.IdempotencyKey("scope", ""))
}

func TestOptionsFromConfig(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:pw@localhost:6390/3", PoolSize: 7, DialTimeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6390", opts.Addr)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, time.Second, opts.DialTimeout)

	_, err = optionsFromConfig(config.RedisConfig{URL: "://bad"})
	require.Error(t, err)
}
