package cache

import (
	"context"
	"time"
)

// LoaderFunc computes the value for an argument when the cache misses.
//
// LoaderFunc 在缓存未命中时为参数计算值。
type LoaderFunc[A, T any] func(ctx context.Context, arg A) (T, error)

// KeyFunc derives the cache identifier and parameters from an argument.
//
// KeyFunc 从参数派生缓存标识符和参数。
type KeyFunc[A any] func(arg A) (identifier string, params map[string]any)

// WithCache wraps a loader in read-through caching. On a hit the cached
// value is returned without invoking the loader; on a miss the loader runs
// and its result is written back with the given TTL. Loader errors pass
// through unchanged and nothing is cached for them.
//
// WithCache 用读穿透缓存包装加载器。命中时返回缓存值而不调用加载器；
// 未命中时运行加载器并以给定TTL回写其结果。
// 加载器错误原样传递，且不会为其缓存任何内容。
//
// Parameters:
//   - c: The cache to read through
//   - ttl: TTL for written-back values; 0 uses the cache's default
//   - keyFn: Derives identifier and params from the argument
//   - loader: Computes the value on a miss
//
// Returns:
//   - LoaderFunc[A, T]: A cached version of the loader
func WithCache[A, T any](c ICache, ttl time.Duration, keyFn KeyFunc[A], loader LoaderFunc[A, T]) LoaderFunc[A, T] {
	return func(ctx context.Context, arg A) (T, error) {
		identifier, params := keyFn(arg)

		var cached T
		if found, err := c.Get(ctx, identifier, params, &cached); err == nil && found {
			return cached, nil
		}

		value, err := loader(ctx, arg)
		if err != nil {
			var zero T
			return zero, err
		}

		// 回写失败不影响已计算的结果
		_ = c.Set(ctx, identifier, params, value, ttl)
		return value, nil
	}
}
