// Package cache provides a thread-safe, multi-tier cache manager for the
// dashboard's client-side data. It composes a key generator, interchangeable
// storage backends, pluggable eviction strategies, TTL-based expiration, and
// per-instance metrics behind one interface.
//
// Storage and serialization failures never surface to callers; a failed
// lookup is a miss and a failed write is a no-op. Only configuration
// validation errors are returned synchronously.
//
// Package cache 为仪表板的客户端数据提供线程安全的多层缓存管理器。
// 它将键生成器、可互换的存储后端、可插拔的淘汰策略、基于TTL的过期机制
// 和每实例指标组合在一个接口之后。
//
// 存储和序列化故障绝不暴露给调用方；失败的查找是未命中，失败的写入是无操作。
// 只有配置验证错误会同步返回。
package cache

import (
	"context"
	"time"
)

// ICache defines the interface for the cache manager.
// All methods are thread-safe and can be called concurrently.
//
// ICache 定义缓存管理器的接口。
// 所有方法都是线程安全的，可以并发调用。
type ICache interface {
	// Get retrieves a value from the cache and deserializes it into out.
	// The key is derived from the identifier and the optional parameters;
	// the same identifier with the same parameters always resolves to the
	// same entry regardless of parameter order.
	// If the key is absent, expired, or unreadable, (false, nil) is returned.
	//
	// Get 从缓存中检索值并将其反序列化到out中。
	// 键由标识符和可选参数派生；相同的标识符加相同的参数
	// 无论参数顺序如何都解析到同一条目。
	// 如果键不存在、已过期或不可读，则返回 (false, nil)。
	//
	// Parameters:
	//   - ctx: Context for the operation, can be used for cancellation
	//   - identifier: The logical name of the cached data
	//   - params: Optional parameters distinguishing variants, may be nil
	//   - out: A pointer to the value to deserialize into
	//
	// Returns:
	//   - bool: True if the entry was found and deserialized
	//   - error: Non-nil only when the cache is closed
	Get(ctx context.Context, identifier string, params map[string]any, out any) (bool, error)

	// Set serializes a value and stores it in the cache.
	// If the key already exists, its value is replaced and its creation
	// time resets. If ttl is 0, the default TTL from the configuration is
	// used. If ttl is negative, the entry does not expire.
	//
	// Set 序列化值并将其存储到缓存中。
	// 如果键已存在，则替换其值并重置创建时间。
	// 如果ttl为0，则使用配置中的默认TTL。
	// 如果ttl为负数，则条目不会过期。
	//
	// Parameters:
	//   - ctx: Context for the operation, can be used for cancellation
	//   - identifier: The logical name of the cached data
	//   - params: Optional parameters distinguishing variants, may be nil
	//   - value: The value to store
	//   - ttl: Time-to-live for the entry
	//
	// Returns:
	//   - error: Non-nil when the cache is closed, the identifier is empty,
	//     or the value cannot be serialized
	Set(ctx context.Context, identifier string, params map[string]any, value any, ttl time.Duration) error

	// Delete removes a value from the cache.
	// Returns true if the key was found and removed. Deleting an absent
	// key is not an error.
	//
	// Delete 从缓存中删除值。
	// 如果找到并删除了键，则返回true。删除不存在的键不是错误。
	//
	// Parameters:
	//   - ctx: Context for the operation, can be used for cancellation
	//   - identifier: The logical name of the cached data
	//   - params: Optional parameters distinguishing variants, may be nil
	//
	// Returns:
	//   - bool: True if the key was found and removed
	//   - error: Non-nil only when the cache is closed
	Delete(ctx context.Context, identifier string, params map[string]any) (bool, error)

	// InvalidatePattern removes every entry whose fully qualified key
	// matches the regular expression, returning the number removed.
	//
	// InvalidatePattern 删除完全限定键匹配正则表达式的每个条目，
	// 返回删除的数量。
	//
	// Parameters:
	//   - ctx: Context for the operation, can be used for cancellation
	//   - pattern: A regular expression matched against full keys
	//
	// Returns:
	//   - int: The number of entries removed
	//   - error: Non-nil when the cache is closed or the pattern is invalid
	InvalidatePattern(ctx context.Context, pattern string) (int, error)

	// Clear removes all values from the cache and resets its statistics.
	//
	// Clear 删除缓存中的所有值并重置其统计信息。
	//
	// Parameters:
	//   - ctx: Context for the operation, can be used for cancellation
	//
	// Returns:
	//   - error: Non-nil only when the cache is closed
	Clear(ctx context.Context) error

	// Stats returns statistics about the cache.
	//
	// Stats 返回有关缓存的统计信息。
	//
	// Parameters:
	//   - ctx: Context for the operation, can be used for cancellation
	//
	// Returns:
	//   - *Stats: Cache statistics
	//   - error: Non-nil only when the cache is closed
	Stats(ctx context.Context) (*Stats, error)

	// Close stops background maintenance and releases resources.
	// Close is idempotent; operations after Close return ErrClosed.
	//
	// Close 停止后台维护并释放资源。
	// Close是幂等的；Close之后的操作返回ErrClosed。
	//
	// Returns:
	//   - error: Error if the close operation failed
	Close() error
}

// Stats represents cache statistics.
// These metrics are collected during cache operations and can be used
// to monitor hit rates and capacity pressure.
//
// Stats 表示缓存统计信息。
// 这些指标在缓存操作期间收集，可用于监控命中率和容量压力。
type Stats struct {
	// EntryCount is the number of entries currently stored
	// EntryCount 是当前存储的条目数
	EntryCount int64 `json:"entry_count"`

	// SizeBytes is the total serialized payload size currently stored
	// SizeBytes 是当前存储的序列化负载总大小
	SizeBytes int64 `json:"size_bytes"`

	// Hits is the number of successful retrievals
	// Hits 是成功检索的次数
	Hits uint64 `json:"hits"`

	// Misses is the number of retrievals where the key was absent or expired
	// Misses 是键不存在或已过期的检索次数
	Misses uint64 `json:"misses"`

	// Evictions is the number of entries removed due to capacity constraints
	// Evictions 是因容量限制而删除的条目数
	Evictions uint64 `json:"evictions"`

	// Expirations is the number of entries removed due to TTL expiry
	// Expirations 是因TTL到期而删除的条目数
	Expirations uint64 `json:"expirations"`

	// Sets is the number of write operations accepted
	// Sets 是已接受的写操作次数
	Sets uint64 `json:"sets"`

	// Deletes is the number of explicit removals
	// Deletes 是显式删除的次数
	Deletes uint64 `json:"deletes"`

	// HitRate is hits/(hits+misses), 0 when no requests yet
	// HitRate 是 hits/(hits+misses)，尚无请求时为0
	HitRate float64 `json:"hit_rate"`

	// AvgAccessLatency is the rolling average lookup latency
	// AvgAccessLatency 是滚动平均查找延迟
	AvgAccessLatency time.Duration `json:"avg_access_latency"`

	// EvictionPolicy is the name of the strategy currently in effect.
	// For the adaptive strategy this reflects the active underlying policy.
	//
	// EvictionPolicy 是当前生效的策略名称。
	// 对于自适应策略，这反映当前活动的底层策略。
	EvictionPolicy string `json:"eviction_policy"`
}
