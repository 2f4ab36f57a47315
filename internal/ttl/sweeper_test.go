package ttl

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/tiercache/internal/storage"
)

// TestSweepRemovesExpired verifies a sweep deletes expired entries and leaves
// live ones, independent of access.
//
// TestSweepRemovesExpired 验证清扫删除过期条目并保留存活条目，与访问无关。
func TestSweepRemovesExpired(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := base

	backend := storage.NewMemoryBackend(&storage.MemoryOptions{Now: func() time.Time { return clock }})
	var expired []string
	s := NewSweeper(backend, &SweeperConfig{
		Interval:  time.Hour, // 周期触发在本测试中不参与
		Now:       func() time.Time { return clock },
		OnExpired: func(key string) { expired = append(expired, key) },
	})
	defer s.Close()

	backend.Set(ctx, &storage.Entry{Key: "short", CreatedAt: base, TTL: 100 * time.Millisecond, LastAccessedAt: base})
	backend.Set(ctx, &storage.Entry{Key: "long", CreatedAt: base, TTL: time.Hour, LastAccessedAt: base})
	backend.Set(ctx, &storage.Entry{Key: "forever", CreatedAt: base, LastAccessedAt: base})

	clock = base.Add(150 * time.Millisecond)
	removed := s.Sweep(ctx)
	if removed != 1 {
		t.Errorf("Expected 1 removal, got %d", removed)
	}
	if len(expired) != 1 || expired[0] != "short" {
		t.Errorf("Expected callback for 'short', got %v", expired)
	}

	keys, _ := backend.Keys(ctx)
	if len(keys) != 2 {
		t.Errorf("Expected 2 surviving keys, got %v", keys)
	}
	for _, k := range keys {
		if k == "short" {
			t.Error("Expired key 'short' still present after sweep")
		}
	}

	sweeps, total := s.Stats()
	if sweeps != 1 || total != 1 {
		t.Errorf("Expected stats (1, 1), got (%d, %d)", sweeps, total)
	}
}

// TestSweeperCloseIdempotent verifies Close can be called repeatedly.
//
// TestSweeperCloseIdempotent 验证Close可以重复调用。
func TestSweeperCloseIdempotent(t *testing.T) {
	backend := storage.NewMemoryBackend(nil)
	s := NewSweeper(backend, &SweeperConfig{Interval: time.Hour})
	s.Close()
	s.Close()
}
