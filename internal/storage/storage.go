// Package storage provides the interchangeable key/value backends the cache
// manager composes over: a process-lifetime in-memory store, a persisted
// store with quota recovery, and a tiered store combining both.
//
// All backends share one contract. Operations take a context because the
// persisted tier may involve I/O; the in-memory tier is synchronous in effect.
//
// Package storage 提供缓存管理器组合使用的可互换键值后端：
// 进程生命周期的内存存储、带配额恢复的持久化存储，以及组合两者的分层存储。
//
// 所有后端共享同一契约。操作接受context，因为持久化层可能涉及I/O；
// 内存层实际上是同步的。
package storage

import (
	"context"
	"time"
)

// Entry represents one cached value together with its bookkeeping fields.
// Data holds the codec output, possibly compressed.
//
// Entry 表示一个缓存值及其簿记字段。
// Data 保存编解码器的输出，可能经过压缩。
type Entry struct {
	// Key is the fully qualified key, globally unique within a namespace
	// Key 是完全限定的键，在命名空间内全局唯一
	Key string `json:"key"`

	// Data is the serialized payload, compressed when Compressed is true
	// Data 是序列化的负载，当Compressed为true时经过压缩
	Data []byte `json:"data"`

	// CreatedAt is the write time, immutable after Set
	// CreatedAt 是写入时间，Set后不可变
	CreatedAt time.Time `json:"created_at"`

	// TTL is the lifetime from CreatedAt; zero or negative means no expiry
	// TTL 是从CreatedAt起的生存时间；零或负值表示不过期
	TTL time.Duration `json:"ttl"`

	// AccessCount is incremented on every successful read
	// AccessCount 在每次成功读取时递增
	AccessCount int64 `json:"access_count"`

	// LastAccessedAt is updated on every successful read, used by LRU
	// LastAccessedAt 在每次成功读取时更新，供LRU使用
	LastAccessedAt time.Time `json:"last_accessed_at"`

	// Size is the serialized payload size in bytes, used for capacity accounting
	// Size 是序列化负载的大小（字节），用于容量统计
	Size int64 `json:"size"`

	// Compressed reports whether Data is stored in compressed form
	// Compressed 报告Data是否以压缩形式存储
	Compressed bool `json:"compressed"`
}

// IsExpired reports whether the entry is logically expired at the given instant.
// Expired entries must never be returned to callers even if still physically
// present (lazy expiry).
//
// IsExpired 报告条目在给定时刻是否在逻辑上已过期。
// 过期条目即使物理上仍然存在也绝不能返回给调用方（惰性过期）。
func (e *Entry) IsExpired(now time.Time) bool {
	if e.TTL <= 0 {
		return false
	}
	return !now.Before(e.CreatedAt.Add(e.TTL))
}

// RemainingTTL returns the time left before the entry expires.
// Entries without expiry report the largest possible duration.
//
// RemainingTTL 返回条目过期前的剩余时间。
// 不过期的条目报告最大可能的持续时间。
func (e *Entry) RemainingTTL(now time.Time) time.Duration {
	if e.TTL <= 0 {
		return time.Duration(1<<63 - 1)
	}
	return e.CreatedAt.Add(e.TTL).Sub(now)
}

// Clone returns a copy of the entry with its own Data slice.
//
// Clone 返回条目的副本，带有独立的Data切片。
func (e *Entry) Clone() *Entry {
	clone := *e
	clone.Data = make([]byte, len(e.Data))
	copy(clone.Data, e.Data)
	return &clone
}

// Backend is the contract shared by all storage tiers.
//
// Get returns (nil, nil) on a miss; storage failures on read degrade to a
// miss at the manager level and must not panic. Set may silently drop the
// write under quota pressure (persisted tier); callers tolerate
// "set did not persist".
//
// Backend 是所有存储层共享的契约。
//
// Get 在未命中时返回 (nil, nil)；读取时的存储故障在管理器层降级为未命中，
// 绝不能panic。Set 在配额压力下可能静默丢弃写入（持久化层）；
// 调用方需容忍"set未持久化"。
type Backend interface {
	// Get retrieves an entry and updates its access fields on a hit.
	// Get 检索条目，并在命中时更新其访问字段。
	Get(ctx context.Context, key string) (*Entry, error)

	// Set stores an entry under its key, overwriting any previous entry.
	// Set 在键下存储条目，覆盖任何先前的条目。
	Set(ctx context.Context, entry *Entry) error

	// Delete removes an entry, reporting whether a removal occurred.
	// Delete 删除条目，报告是否发生了删除。
	Delete(ctx context.Context, key string) (bool, error)

	// Clear removes all entries owned by this backend.
	// Clear 删除此后端拥有的所有条目。
	Clear(ctx context.Context) error

	// Keys lists all keys currently present, limited to this backend's namespace.
	// Keys 列出当前存在的所有键，仅限此后端的命名空间。
	Keys(ctx context.Context) ([]string, error)

	// Len returns the number of entries currently present.
	// Len 返回当前存在的条目数。
	Len(ctx context.Context) (int, error)

	// Size returns the total payload bytes currently present.
	// Size 返回当前存在的负载总字节数。
	Size(ctx context.Context) (int64, error)

	// Items returns a snapshot of all entries for eviction and sweeping.
	// Snapshot entries are detached from the live store: reading them does
	// not update access fields, and concurrent reads may proceed while the
	// backend keeps serving Get.
	//
	// Items 返回所有条目的快照，用于淘汰和清扫。
	// 快照条目与在线存储分离：读取它们不会更新访问字段，
	// 并且在后端继续服务Get的同时可以并发读取。
	Items(ctx context.Context) (map[string]*Entry, error)

	// Close releases any resources held by the backend.
	// Close 释放后端持有的任何资源。
	Close() error
}
