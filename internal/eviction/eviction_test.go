package eviction

import (
	"testing"
	"time"

	"github.com/yourusername/tiercache/internal/storage"
)

var base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// entryAt 构造带有指定访问特征的快照条目
func entryAt(created, accessed time.Duration, count int64, ttl time.Duration) *storage.Entry {
	return &storage.Entry{
		CreatedAt:      base.Add(created),
		LastAccessedAt: base.Add(accessed),
		AccessCount:    count,
		TTL:            ttl,
	}
}

// TestLRUOrder verifies oldest-accessed entries are selected first.
//
// TestLRUOrder 验证最早访问的条目最先被选中。
func TestLRUOrder(t *testing.T) {
	entries := map[string]*storage.Entry{
		"cold": entryAt(0, 1*time.Second, 1, 0),
		"warm": entryAt(0, 5*time.Second, 1, 0),
		"hot":  entryAt(0, 9*time.Second, 1, 0),
	}

	victims := LRU{}.SelectVictims(entries, 2, base)
	if len(victims) != 2 {
		t.Fatalf("Expected 2 victims, got %d", len(victims))
	}
	if victims[0] != "cold" || victims[1] != "warm" {
		t.Errorf("Expected [cold warm], got %v", victims)
	}
}

// TestLFUOrder verifies least-used entries are selected first.
//
// TestLFUOrder 验证使用最少的条目最先被选中。
func TestLFUOrder(t *testing.T) {
	entries := map[string]*storage.Entry{
		"rare":     entryAt(0, 0, 1, 0),
		"common":   entryAt(0, 0, 10, 0),
		"frequent": entryAt(0, 0, 100, 0),
	}

	victims := LFU{}.SelectVictims(entries, 2, base)
	if victims[0] != "rare" || victims[1] != "common" {
		t.Errorf("Expected [rare common], got %v", victims)
	}
}

// TestFIFOOrder verifies oldest-created entries are selected first.
//
// TestFIFOOrder 验证创建最早的条目最先被选中。
func TestFIFOOrder(t *testing.T) {
	entries := map[string]*storage.Entry{
		"third":  entryAt(3*time.Second, 3*time.Second, 0, 0),
		"first":  entryAt(1*time.Second, 1*time.Second, 0, 0),
		"second": entryAt(2*time.Second, 2*time.Second, 0, 0),
	}

	victims := FIFO{}.SelectVictims(entries, 3, base)
	want := []string{"first", "second", "third"}
	for i, k := range want {
		if victims[i] != k {
			t.Errorf("Position %d: expected '%s', got '%s'", i, k, victims[i])
		}
	}
}

// TestTTLAwareExpiredFirst verifies expired entries are always selected
// before live ones, then live ones by remaining lifetime.
//
// TestTTLAwareExpiredFirst 验证已过期的条目总是先于存活条目被选中，
// 然后存活条目按剩余生存时间排序。
func TestTTLAwareExpiredFirst(t *testing.T) {
	now := base.Add(10 * time.Second)
	entries := map[string]*storage.Entry{
		"expired":    entryAt(0, 0, 0, 5*time.Second),
		"dying-soon": entryAt(0, 0, 0, 12*time.Second), // 剩余2秒
		"long-lived": entryAt(0, 0, 0, time.Hour),
	}

	victims := TTLAware{}.SelectVictims(entries, 2, now)
	if victims[0] != "expired" {
		t.Errorf("Expected expired entry first, got %v", victims)
	}
	if victims[1] != "dying-soon" {
		t.Errorf("Expected smallest remaining TTL second, got %v", victims)
	}
}

// TestTieBreakByCreatedAt verifies the uniform tie-break rule: equal primary
// keys fall back to ascending CreatedAt.
//
// TestTieBreakByCreatedAt 验证统一的决胜规则：主键相等时回退到CreatedAt升序。
func TestTieBreakByCreatedAt(t *testing.T) {
	sameAccess := base.Add(5 * time.Second)
	entries := map[string]*storage.Entry{
		"younger": {CreatedAt: base.Add(2 * time.Second), LastAccessedAt: sameAccess},
		"older":   {CreatedAt: base.Add(1 * time.Second), LastAccessedAt: sameAccess},
	}

	victims := LRU{}.SelectVictims(entries, 1, base)
	if victims[0] != "older" {
		t.Errorf("Expected tie-break to pick 'older', got %v", victims)
	}
}

// TestTargetClamping verifies the victim count is min(target, len(entries)).
//
// TestTargetClamping 验证牺牲者数量为 min(target, len(entries))。
func TestTargetClamping(t *testing.T) {
	entries := map[string]*storage.Entry{
		"a": entryAt(0, 0, 0, 0),
		"b": entryAt(time.Second, time.Second, 0, 0),
	}

	for _, s := range []Strategy{LRU{}, LFU{}, FIFO{}, TTLAware{}, NewAdaptive()} {
		if got := s.SelectVictims(entries, 10, base); len(got) != 2 {
			t.Errorf("%s: expected 2 victims for oversized target, got %d", s.Name(), len(got))
		}
		if got := s.SelectVictims(entries, 0, base); len(got) != 0 {
			t.Errorf("%s: expected 0 victims for zero target, got %d", s.Name(), len(got))
		}
	}
}

// TestNewRegistry verifies the registry covers all names and rejects unknowns.
//
// TestNewRegistry 验证注册表覆盖所有名称并拒绝未知名称。
func TestNewRegistry(t *testing.T) {
	for _, name := range []string{"lru", "lfu", "fifo", "ttl", "adaptive"} {
		s, err := New(name)
		if err != nil {
			t.Errorf("New(%s) failed: %v", name, err)
			continue
		}
		if s.Name() != name {
			t.Errorf("Expected name '%s', got '%s'", name, s.Name())
		}
	}

	if _, err := New("random"); err == nil {
		t.Error("Expected error for unknown strategy, got nil")
	}

	s, err := New("")
	if err != nil || s.Name() != "lru" {
		t.Errorf("Expected empty name to select lru, got (%v, %v)", s, err)
	}
}

// TestAdaptiveSwitches verifies the hit-rate heuristic flips the active
// policy after a sustained drop.
//
// TestAdaptiveSwitches 验证命中率启发式在持续下降后翻转活动策略。
func TestAdaptiveSwitches(t *testing.T) {
	a := NewAdaptive()
	if a.Active() != "lru" {
		t.Fatalf("Expected initial policy lru, got %s", a.Active())
	}

	// 第一个窗口：90%命中率成为基线
	for i := 0; i < adaptiveWindow; i++ {
		a.Observe(i%10 != 0)
	}
	if a.Active() != "lru" {
		t.Errorf("Expected no switch after baseline window, got %s", a.Active())
	}

	// 第二个窗口：命中率跌至50%，应触发切换
	for i := 0; i < adaptiveWindow; i++ {
		a.Observe(i%2 == 0)
	}
	if a.Active() != "lfu" {
		t.Errorf("Expected switch to lfu after hit-rate drop, got %s", a.Active())
	}
}

// TestAdaptiveDelegates verifies victim selection matches the active policy.
//
// TestAdaptiveDelegates 验证牺牲者选择与活动策略一致。
func TestAdaptiveDelegates(t *testing.T) {
	a := NewAdaptive()
	entries := map[string]*storage.Entry{
		"stale-but-popular": entryAt(0, 1*time.Second, 100, 0),
		"fresh-but-rare":    entryAt(0, 9*time.Second, 1, 0),
	}

	// LRU模式：最早访问者先淘汰
	victims := a.SelectVictims(entries, 1, base)
	if victims[0] != "stale-but-popular" {
		t.Errorf("LRU mode: expected 'stale-but-popular', got %v", victims)
	}
}
