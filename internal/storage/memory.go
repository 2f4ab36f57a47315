package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryBackend is a map-backed store held for the lifetime of the process.
// It is mutated only by its owning cache manager; no two managers share one.
//
// MemoryBackend 是以映射为后端的存储，在进程的生命周期内持有。
// 它只被拥有它的缓存管理器修改；两个管理器不会共享同一个实例。
type MemoryBackend struct {
	mu        sync.RWMutex
	items     map[string]*Entry
	totalSize int64
	now       func() time.Time
}

// MemoryOptions configures a MemoryBackend.
//
// MemoryOptions 配置MemoryBackend。
type MemoryOptions struct {
	// InitialCapacity 是底层映射的初始容量
	InitialCapacity int

	// Now 覆盖时钟来源，测试中用于模拟时间
	Now func() time.Time
}

// NewMemoryBackend creates a new in-memory backend.
//
// NewMemoryBackend 创建一个新的内存后端。
func NewMemoryBackend(opts *MemoryOptions) *MemoryBackend {
	if opts == nil {
		opts = &MemoryOptions{}
	}
	capacity := opts.InitialCapacity
	if capacity <= 0 {
		capacity = 64
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &MemoryBackend{
		items: make(map[string]*Entry, capacity),
		now:   now,
	}
}

// Get 获取条目并更新其访问字段
func (m *MemoryBackend) Get(ctx context.Context, key string) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, found := m.items[key]
	if !found {
		return nil, nil
	}

	entry.AccessCount++
	entry.LastAccessedAt = m.now()
	return entry, nil
}

// Set 存储条目
func (m *MemoryBackend) Set(ctx context.Context, entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, exists := m.items[entry.Key]; exists {
		m.totalSize -= old.Size
	}
	m.items[entry.Key] = entry
	m.totalSize += entry.Size
	return nil
}

// Delete 删除条目
func (m *MemoryBackend) Delete(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.items[key]
	if !exists {
		return false, nil
	}
	delete(m.items, key)
	m.totalSize -= entry.Size
	return true, nil
}

// Clear 清空存储
func (m *MemoryBackend) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]*Entry, 64)
	m.totalSize = 0
	return nil
}

// Keys 返回所有键
func (m *MemoryBackend) Keys(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	return keys, nil
}

// Len 返回条目数量
func (m *MemoryBackend) Len(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items), nil
}

// Size 返回负载总大小（字节）
func (m *MemoryBackend) Size(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalSize, nil
}

// Items 返回条目快照，不更新访问字段。
// 条目是副本；Get会在锁内修改访问字段，快照消费方在锁外读取同一批字段，
// 共享指针会造成数据竞争。
func (m *MemoryBackend) Items(ctx context.Context) (map[string]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := make(map[string]*Entry, len(m.items))
	for k, v := range m.items {
		snapshot[k] = v.Clone()
	}
	return snapshot, nil
}

// Close 释放资源
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	m.totalSize = 0
	return nil
}
