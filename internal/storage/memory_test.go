package storage

import (
	"context"
	"testing"
	"time"
)

func newTestEntry(key string, data string, ttl time.Duration, created time.Time) *Entry {
	return &Entry{
		Key:            key,
		Data:           []byte(data),
		CreatedAt:      created,
		TTL:            ttl,
		LastAccessedAt: created,
		Size:           int64(len(data)),
	}
}

// TestMemoryRoundTrip verifies set/get round trips and access-field updates.
//
// TestMemoryRoundTrip 验证set/get往返和访问字段更新。
func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	m := NewMemoryBackend(&MemoryOptions{Now: func() time.Time { return clock }})

	entry := newTestEntry("ns:k1", "payload", time.Minute, base)
	if err := m.Set(ctx, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	clock = base.Add(10 * time.Second)
	got, err := m.Get(ctx, "ns:k1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected entry, got nil")
	}
	if string(got.Data) != "payload" {
		t.Errorf("Expected 'payload', got '%s'", got.Data)
	}
	if got.AccessCount != 1 {
		t.Errorf("Expected AccessCount 1, got %d", got.AccessCount)
	}
	if !got.LastAccessedAt.Equal(base.Add(10 * time.Second)) {
		t.Errorf("Expected LastAccessedAt updated, got %v", got.LastAccessedAt)
	}
	if got.CreatedAt.After(got.LastAccessedAt) {
		t.Error("Invariant violated: CreatedAt must not exceed LastAccessedAt")
	}
}

// TestMemoryMiss verifies a miss returns (nil, nil).
//
// TestMemoryMiss 验证未命中返回(nil, nil)。
func TestMemoryMiss(t *testing.T) {
	m := NewMemoryBackend(nil)
	got, err := m.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil on miss, got %+v", got)
	}
}

// TestMemoryDeleteIdempotent verifies that the first delete reports removal
// and the second does not.
//
// TestMemoryDeleteIdempotent 验证第一次删除报告已删除，第二次不报告。
func TestMemoryDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend(nil)
	now := time.Now()

	if err := m.Set(ctx, newTestEntry("k", "v", 0, now)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	removed, err := m.Delete(ctx, "k")
	if err != nil || !removed {
		t.Errorf("Expected first delete to report removal, got (%v, %v)", removed, err)
	}
	removed, err = m.Delete(ctx, "k")
	if err != nil || removed {
		t.Errorf("Expected second delete to report no removal, got (%v, %v)", removed, err)
	}
}

// TestMemoryAccounting verifies Len/Size/Keys/Clear bookkeeping.
//
// TestMemoryAccounting 验证Len/Size/Keys/Clear的簿记。
func TestMemoryAccounting(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend(nil)
	now := time.Now()

	m.Set(ctx, newTestEntry("a", "12345", 0, now))
	m.Set(ctx, newTestEntry("b", "123", 0, now))
	// 覆盖写入必须替换旧大小
	m.Set(ctx, newTestEntry("a", "12", 0, now))

	n, _ := m.Len(ctx)
	if n != 2 {
		t.Errorf("Expected Len 2, got %d", n)
	}
	size, _ := m.Size(ctx)
	if size != 5 {
		t.Errorf("Expected Size 5, got %d", size)
	}
	keys, _ := m.Keys(ctx)
	if len(keys) != 2 {
		t.Errorf("Expected 2 keys, got %v", keys)
	}

	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	n, _ = m.Len(ctx)
	if n != 0 {
		t.Errorf("Expected Len 0 after Clear, got %d", n)
	}
	size, _ = m.Size(ctx)
	if size != 0 {
		t.Errorf("Expected Size 0 after Clear, got %d", size)
	}
}

// TestMemoryItemsSnapshot verifies Items does not bump access fields.
//
// TestMemoryItemsSnapshot 验证Items不会增加访问字段。
func TestMemoryItemsSnapshot(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend(nil)
	m.Set(ctx, newTestEntry("k", "v", 0, time.Now()))

	items, err := m.Items(ctx)
	if err != nil {
		t.Fatalf("Items failed: %v", err)
	}
	if items["k"].AccessCount != 0 {
		t.Errorf("Expected snapshot read to leave AccessCount 0, got %d", items["k"].AccessCount)
	}
}

// TestMemoryItemsDetached verifies snapshot entries are copies: reads after
// the snapshot do not show through, and mutating a snapshot entry's data
// does not reach the live store.
//
// TestMemoryItemsDetached 验证快照条目是副本：快照之后的读取不会
// 反映到快照中，修改快照条目的数据也不会影响在线存储。
func TestMemoryItemsDetached(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend(nil)
	m.Set(ctx, newTestEntry("k", "v", 0, time.Now()))

	items, err := m.Items(ctx)
	if err != nil {
		t.Fatalf("Items failed: %v", err)
	}

	if _, err := m.Get(ctx, "k"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if items["k"].AccessCount != 0 {
		t.Errorf("Expected snapshot isolated from later reads, AccessCount=%d", items["k"].AccessCount)
	}

	items["k"].Data[0] = 'X'
	got, _ := m.Get(ctx, "k")
	if string(got.Data) != "v" {
		t.Errorf("Expected live data unaffected by snapshot mutation, got '%s'", got.Data)
	}
}

// TestEntryExpiry verifies the lazy-expiry predicate and remaining TTL.
//
// TestEntryExpiry 验证惰性过期判定和剩余TTL。
func TestEntryExpiry(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	entry := newTestEntry("k", "v", 100*time.Millisecond, base)

	if entry.IsExpired(base.Add(99 * time.Millisecond)) {
		t.Error("Entry expired too early")
	}
	if !entry.IsExpired(base.Add(100 * time.Millisecond)) {
		t.Error("Entry not expired at createdAt+ttl")
	}
	if !entry.IsExpired(base.Add(150 * time.Millisecond)) {
		t.Error("Entry not expired after ttl elapsed")
	}

	forever := newTestEntry("k2", "v", 0, base)
	if forever.IsExpired(base.Add(24 * time.Hour)) {
		t.Error("Entry without TTL must never expire")
	}

	if got := entry.RemainingTTL(base.Add(40 * time.Millisecond)); got != 60*time.Millisecond {
		t.Errorf("Expected remaining 60ms, got %v", got)
	}
}
