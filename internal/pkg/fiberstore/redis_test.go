package fiberstore

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, "store:"), mr
}

func TestRedisGetMissing(t *testing.T) {
	s, _ := newTestStore(t)

	b, err := s.Get("nope")
	assert.NoError(t, err)
	assert.Nil(t, b)
}

func TestRedisSetGet(t *testing.T) {
	s, mr := newTestStore(t)

	require.NoError(t, s.Set("k", []byte("v"), time.Hour))
	b, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), b)
	assert.Equal(t, time.Hour, mr.TTL("store:k"))

	mr.FastForward(2 * time.Hour)
	b, err = s.Get("k")
	assert.NoError(t, err)
	assert.Nil(t, b)
}

func TestRedisSetIgnoresEmpty(t *testing.T) {
	s, mr := newTestStore(t)

	require.NoError(t, s.Set("", []byte("v"), 0))
	require.NoError(t, s.Set("k", nil, 0))
	assert.Empty(t, mr.Keys())
}

func TestRedisDeleteAndReset(t *testing.T) {
	s, mr := newTestStore(t)

	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))
	require.NoError(t, mr.Set("foreign", "x"))

	require.NoError(t, s.Delete("a"))
	assert.False(t, mr.Exists("store:a"))

	require.NoError(t, s.Reset())
	assert.Equal(t, []string{"foreign"}, mr.Keys())
	assert.NoError(t, s.Close())
}

func TestRedisGetError(t *testing.T) {
	s, mr := newTestStore(t)
	mr.SetError("ERR injected failure")

	_, err := s.Get("k")
	assert.Error(t, err)
}
