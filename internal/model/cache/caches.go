package cache

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/pkg/cache"
)

type Flusher func(ctx context.Context) error

var (
	// QueryRows memoizes raw warehouse rows by schema and QuerySpec fingerprint.
	QueryRows *cache.Set[[]map[string]interface{}]

	// Columns holds the catalog columns of a table by schema and table name.
	Columns *cache.Set[[]model.Column]

	Presets *cache.Singular[[]model.Preset]

	once sync.Once

	SetMap             map[string]Flusher
	SingularFlusherMap map[string]Flusher
)

func Initialize(client redis.UniversalClient) {
	once.Do(func() {
		initializeCaches(client)
	})
}

// Delete flushes the named cache. An empty name flushes every cache.
func Delete(ctx context.Context, name string) error {
	if name == "" {
		for _, f := range SetMap {
			if err := f(ctx); err != nil {
				return err
			}
		}
		for _, f := range SingularFlusherMap {
			if err := f(ctx); err != nil {
				return err
			}
		}
		return nil
	}
	if f, ok := SingularFlusherMap[name]; ok {
		return f(ctx)
	}
	if f, ok := SetMap[name]; ok {
		return f(ctx)
	}
	return nil
}

// Names lists the flushable caches.
func Names() []string {
	names := make([]string, 0, len(SetMap)+len(SingularFlusherMap))
	for k := range SetMap {
		names = append(names, k)
	}
	for k := range SingularFlusherMap {
		names = append(names, k)
	}
	return names
}

func initializeCaches(client redis.UniversalClient) {
	SetMap = make(map[string]Flusher)
	SingularFlusherMap = make(map[string]Flusher)

	// query
	QueryRows = cache.NewSet[[]map[string]interface{}](client, "queryRows#schema|fingerprint")

	SetMap["queryRows#schema|fingerprint"] = QueryRows.Clear

	// catalog
	Columns = cache.NewSet[[]model.Column](client, "columns#schema|table")

	SetMap["columns#schema|table"] = Columns.Clear

	// preset
	Presets = cache.NewSingular[[]model.Preset]("presets")

	SingularFlusherMap["presets"] = singularFlusher(Presets.Delete)
}

func singularFlusher(f func()) Flusher {
	return func(context.Context) error {
		f()
		return nil
	}
}
