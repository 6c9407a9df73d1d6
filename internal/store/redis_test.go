package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return mr, NewRedis(client)
}

func TestRedisBackend(t *testing.T) {
	_, backend := newMiniRedis(t)
	backendSuite(t, backend)
}

func TestRedis_OneHashPerTable(t *testing.T) {
	mr, backend := newMiniRedis(t)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "vts-portal-users", "u1", []byte(`{"id":"u1"}`)))

	assert.Equal(t, `{"id":"u1"}`, mr.HGet("vts-portal-users", "u1"))
	keys, err := mr.HKeys("vts-portal-users")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, keys)
}

func TestRedis_FaultsSurface(t *testing.T) {
	mr, backend := newMiniRedis(t)
	mr.SetError("LOADING dataset")

	_, _, err := backend.Get(context.Background(), "t", "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, redis.Nil)

	_, err = backend.Scan(context.Background(), "t", nil)
	assert.Error(t, err)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-url")
	assert.Error(t, err)
}
