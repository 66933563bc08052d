package rbac

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestCacheFetchJSONCachesLoaderResult(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return []string{"assets", "reports"}, nil
	}

	var modules []string
	require.NoError(t, cache.FetchJSON(ctx, []string{"rbac:grant:admin", "3"}, &modules, loader))
	require.Equal(t, []string{"assets", "reports"}, modules)
	require.Equal(t, 1, calls)

	modules = nil
	require.NoError(t, cache.FetchJSON(ctx, []string{"rbac:grant:admin", "3"}, &modules, loader))
	require.Equal(t, []string{"assets", "reports"}, modules)
	require.Equal(t, 1, calls)
}

func TestCacheBumpInvalidates(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return []string{"assets"}, nil
	}

	var modules []string
	require.NoError(t, cache.FetchJSON(ctx, []string{"rbac:grant:user", "7"}, &modules, loader))
	require.Equal(t, 1, calls)

	require.NoError(t, cache.Bump(ctx))

	require.NoError(t, cache.FetchJSON(ctx, []string{"rbac:grant:user", "7"}, &modules, loader))
	require.Equal(t, 2, calls)
}

func TestCacheNilFallsThrough(t *testing.T) {
	var cache *Cache
	calls := 0

	var modules []string
	err := cache.FetchJSON(context.Background(), []string{"rbac:grant:user", "7"}, &modules,
		func(context.Context) (any, error) {
			calls++
			return []string{"assets"}, nil
		})
	require.NoError(t, err)
	require.Equal(t, []string{"assets"}, modules)
	require.Equal(t, 1, calls)
}
