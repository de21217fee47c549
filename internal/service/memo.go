package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/plantops/opsboard/internal/pkg/cache"
	"github.com/plantops/opsboard/internal/pkg/observability"
)

// memo is the read-through cache used by services. It is satisfied by *cache.Set.
type memo[T any] interface {
	MutexGetSet(ctx context.Context, key string, dest *T, valueFunc func() (T, error), expire time.Duration) (bool, error)
}

// passthrough computes every value, for when no cache is configured.
type passthrough[T any] struct{}

func (passthrough[T]) MutexGetSet(_ context.Context, _ string, dest *T, valueFunc func() (T, error), _ time.Duration) (bool, error) {
	v, err := valueFunc()
	if err != nil {
		return true, err
	}
	*dest = v
	return true, nil
}

func setMemo[T any](s *cache.Set[T]) memo[T] {
	if s == nil {
		return passthrough[T]{}
	}
	return s
}

// memoized reads key through m, computing it with valueFunc on a miss. Errors of valueFunc are
// returned as-is; cache failures degrade to computing the value directly. The boolean reports
// whether the value was computed.
func memoized[T any](ctx context.Context, m memo[T], name, key string, expire time.Duration, valueFunc func() (T, error)) (T, bool, error) {
	var (
		dest     T
		valueErr error
		computed bool
	)
	calculated, err := m.MutexGetSet(ctx, key, &dest, func() (T, error) {
		computed = true
		v, err := valueFunc()
		valueErr = err
		return v, err
	}, expire)
	if valueErr != nil {
		return dest, true, valueErr
	}
	if err != nil {
		observability.CacheOutcome.WithLabelValues(name, "error").Inc()
		log.Warn().
			Err(err).
			Str("evt.name", "cache.degraded").
			Str("cache", name).
			Str("key", key).
			Msg("cache unavailable, computing value directly")
		if computed {
			return dest, true, nil
		}
		v, err := valueFunc()
		return v, true, err
	}
	if calculated {
		observability.CacheOutcome.WithLabelValues(name, "miss").Inc()
	} else {
		observability.CacheOutcome.WithLabelValues(name, "hit").Inc()
	}
	return dest, calculated, nil
}
