package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type holdCount struct {
	Line  string
	Count int
}

func newTestSet(t *testing.T) (*Set[holdCount], *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSet[holdCount](client, "holds"), mr, client
}

func TestSetGetMissing(t *testing.T) {
	s, _, _ := newTestSet(t)

	var dest holdCount
	err := s.Get(context.Background(), "line-1", &dest)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMutexGetSetMissThenHit(t *testing.T) {
	ctx := context.Background()
	s, mr, _ := newTestSet(t)

	calls := 0
	value := func() (holdCount, error) {
		calls++
		return holdCount{Line: "L1", Count: 7}, nil
	}

	var dest holdCount
	calculated, err := s.MutexGetSet(ctx, "line-1", &dest, value, time.Minute)
	require.NoError(t, err)
	assert.True(t, calculated)
	assert.Equal(t, holdCount{Line: "L1", Count: 7}, dest)
	assert.True(t, mr.Exists("holds:line-1"))
	assert.Equal(t, time.Minute, mr.TTL("holds:line-1"))

	var again holdCount
	calculated, err = s.MutexGetSet(ctx, "line-1", &again, value, time.Minute)
	require.NoError(t, err)
	assert.False(t, calculated)
	assert.Equal(t, dest, again)
	assert.Equal(t, 1, calls)

	mr.FastForward(2 * time.Minute)
	calculated, err = s.MutexGetSet(ctx, "line-1", &again, value, time.Minute)
	require.NoError(t, err)
	assert.True(t, calculated, "an expired entry is recomputed")
	assert.Equal(t, 2, calls)
}

func TestMutexGetSetValueError(t *testing.T) {
	s, mr, _ := newTestSet(t)

	var dest holdCount
	calculated, err := s.MutexGetSet(context.Background(), "line-1", &dest, func() (holdCount, error) {
		return holdCount{}, errors.New("warehouse down")
	}, time.Minute)
	assert.EqualError(t, err, "warehouse down")
	assert.True(t, calculated)
	assert.False(t, mr.Exists("holds:line-1"))
}

func TestMutexGetSetStoreError(t *testing.T) {
	s, mr, _ := newTestSet(t)

	var dest holdCount
	calculated, err := s.MutexGetSet(context.Background(), "line-1", &dest, func() (holdCount, error) {
		mr.SetError("ERR injected failure")
		return holdCount{Line: "L1", Count: 3}, nil
	}, time.Minute)
	mr.SetError("")

	assert.Error(t, err)
	assert.True(t, calculated)
	assert.Equal(t, holdCount{Line: "L1", Count: 3}, dest, "the computed value is still handed back")
	assert.False(t, mr.Exists("holds:line-1"))
}

func TestMutexGetSetReadError(t *testing.T) {
	s, mr, _ := newTestSet(t)
	mr.SetError("ERR injected failure")
	defer mr.SetError("")

	calls := 0
	var dest holdCount
	calculated, err := s.MutexGetSet(context.Background(), "line-1", &dest, func() (holdCount, error) {
		calls++
		return holdCount{}, nil
	}, time.Minute)
	assert.Error(t, err)
	assert.False(t, calculated)
	assert.Zero(t, calls)
}

func TestSetDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	s, mr, _ := newTestSet(t)

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, s.Set(ctx, k, holdCount{Line: k}, 0))
	}
	require.NoError(t, mr.Set("other:a", "keep"))

	require.NoError(t, s.Delete(ctx, "a"))
	assert.False(t, mr.Exists("holds:a"))
	assert.True(t, mr.Exists("holds:b"))

	require.NoError(t, s.Clear(ctx))
	assert.False(t, mr.Exists("holds:b"))
	assert.False(t, mr.Exists("holds:c"))
	assert.True(t, mr.Exists("other:a"))
}
