package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestHitRateAccounting verifies hitRate == hits/(hits+misses), 0 with no requests.
//
// TestHitRateAccounting 验证 hitRate == hits/(hits+misses)，无请求时为0。
func TestHitRateAccounting(t *testing.T) {
	c := NewCollector()

	if got := c.Snapshot().HitRate; got != 0 {
		t.Errorf("Expected HitRate 0 with no requests, got %f", got)
	}

	for i := 0; i < 3; i++ {
		c.RecordHit(time.Microsecond)
	}
	c.RecordMiss(time.Microsecond)

	s := c.Snapshot()
	if s.Hits != 3 || s.Misses != 1 {
		t.Errorf("Expected 3 hits / 1 miss, got %d / %d", s.Hits, s.Misses)
	}
	if s.HitRate != 0.75 {
		t.Errorf("Expected HitRate 0.75, got %f", s.HitRate)
	}
}

// TestLatencyEWMA verifies the rolling average starts at the first sample and
// moves toward later samples.
//
// TestLatencyEWMA 验证滚动平均从第一个样本开始并向后续样本移动。
func TestLatencyEWMA(t *testing.T) {
	c := NewCollector()

	c.RecordHit(100 * time.Microsecond)
	if got := c.Snapshot().AvgAccessLatency; got != 100*time.Microsecond {
		t.Errorf("Expected first sample as average, got %v", got)
	}

	c.RecordHit(200 * time.Microsecond)
	got := c.Snapshot().AvgAccessLatency
	if got <= 100*time.Microsecond || got >= 200*time.Microsecond {
		t.Errorf("Expected average between samples, got %v", got)
	}
}

// TestReset verifies Reset zeroes every counter.
//
// TestReset 验证Reset将每个计数器清零。
func TestReset(t *testing.T) {
	c := NewCollector()
	c.RecordHit(time.Microsecond)
	c.RecordMiss(time.Microsecond)
	c.RecordEvictions(2)
	c.RecordSet()
	c.RecordDelete()
	c.RecordExpiration()

	c.Reset()
	s := c.Snapshot()
	if s.Hits != 0 || s.Misses != 0 || s.Evictions != 0 || s.Sets != 0 || s.Deletes != 0 || s.Expirations != 0 {
		t.Errorf("Expected zeroed counters after Reset, got %+v", s)
	}
	if s.AvgAccessLatency != 0 {
		t.Errorf("Expected zero latency after Reset, got %v", s.AvgAccessLatency)
	}
}

// TestPrometheusExporter verifies the exporter registers and exposes the
// expected metric families.
//
// TestPrometheusExporter 验证导出器注册并暴露预期的指标族。
func TestPrometheusExporter(t *testing.T) {
	c := NewCollector()
	c.RecordHit(time.Microsecond)
	c.RecordMiss(time.Microsecond)
	c.RecordEvictions(1)

	registry := prometheus.NewRegistry()
	if err := registry.Register(NewExporter(c, "test-cache")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	want := map[string]bool{
		"tiercache_hits_total":             false,
		"tiercache_misses_total":           false,
		"tiercache_evictions_total":        false,
		"tiercache_expirations_total":      false,
		"tiercache_hit_rate":               false,
		"tiercache_access_latency_seconds": false,
	}
	for _, family := range families {
		if _, ok := want[family.GetName()]; ok {
			want[family.GetName()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("Metric family '%s' not exported", name)
		}
	}
}
