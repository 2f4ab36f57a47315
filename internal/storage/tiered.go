package storage

import "context"

// TieredBackend composes a fast in-memory tier with a persisted tier under
// the common Backend contract. Writes go to both tiers synchronously
// (write-through); reads consult the memory tier first and promote persisted
// hits back into memory. Capacity accounting (Len/Size/Items/Keys) reflects
// the union of both tiers, with the memory tier winning key conflicts.
//
// TieredBackend 在通用Backend契约下组合快速内存层和持久化层。
// 写入同步进入两层（写穿透）；读取首先查询内存层，并将持久化层的命中
// 提升回内存。容量统计（Len/Size/Items/Keys）反映两层的并集，
// 键冲突时以内存层为准。
type TieredBackend struct {
	memory    Backend
	persisted Backend
}

// NewTieredBackend creates a write-through backend over the two tiers.
//
// NewTieredBackend 在两层之上创建写穿透后端。
func NewTieredBackend(memory, persisted Backend) *TieredBackend {
	return &TieredBackend{memory: memory, persisted: persisted}
}

// Get 先查内存层，未命中时回退到持久化层并提升命中条目
func (t *TieredBackend) Get(ctx context.Context, key string) (*Entry, error) {
	entry, err := t.memory.Get(ctx, key)
	if err == nil && entry != nil {
		return entry, nil
	}

	entry, err = t.persisted.Get(ctx, key)
	if err != nil || entry == nil {
		return entry, err
	}

	// 提升到内存层是尽力而为的
	_ = t.memory.Set(ctx, entry)
	return entry, nil
}

// Set 同步写入两层；持久化层可能在配额压力下静默丢弃
func (t *TieredBackend) Set(ctx context.Context, entry *Entry) error {
	if err := t.memory.Set(ctx, entry); err != nil {
		return err
	}
	return t.persisted.Set(ctx, entry)
}

// Delete 从两层删除；任一层发生删除即报告删除
func (t *TieredBackend) Delete(ctx context.Context, key string) (bool, error) {
	memRemoved, memErr := t.memory.Delete(ctx, key)
	perRemoved, perErr := t.persisted.Delete(ctx, key)
	if memErr != nil {
		return memRemoved || perRemoved, memErr
	}
	return memRemoved || perRemoved, perErr
}

// Clear 清空两层
func (t *TieredBackend) Clear(ctx context.Context) error {
	if err := t.memory.Clear(ctx); err != nil {
		return err
	}
	return t.persisted.Clear(ctx)
}

// Keys 返回两层键的并集
func (t *TieredBackend) Keys(ctx context.Context) ([]string, error) {
	items, err := t.Items(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	return keys, nil
}

// Len 返回两层并集的条目数
func (t *TieredBackend) Len(ctx context.Context) (int, error) {
	items, err := t.Items(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Size 返回两层并集的负载总字节数
func (t *TieredBackend) Size(ctx context.Context) (int64, error) {
	items, err := t.Items(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, entry := range items {
		total += entry.Size
	}
	return total, nil
}

// Items 返回两层并集的快照，内存层优先
func (t *TieredBackend) Items(ctx context.Context) (map[string]*Entry, error) {
	persisted, err := t.persisted.Items(ctx)
	if err != nil {
		return nil, err
	}
	memory, err := t.memory.Items(ctx)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]*Entry, len(persisted)+len(memory))
	for k, v := range persisted {
		merged[k] = v
	}
	for k, v := range memory {
		merged[k] = v
	}
	return merged, nil
}

// Close 关闭两层
func (t *TieredBackend) Close() error {
	memErr := t.memory.Close()
	perErr := t.persisted.Close()
	if memErr != nil {
		return memErr
	}
	return perErr
}
