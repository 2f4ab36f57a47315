// Package metrics 提供缓存运行时指标采集、统计和导出功能
package metrics

import (
	"math"
	"sync/atomic"
	"time"
)

// ewmaAlpha 是访问延迟滚动平均的平滑系数
const ewmaAlpha = 0.1

// Collector accumulates counters for one cache manager instance. Each manager
// owns exactly one collector; collectors are never shared or static.
//
// Collector 为一个缓存管理器实例累积计数器。
// 每个管理器恰好拥有一个收集器；收集器绝不共享也不是静态的。
type Collector struct {
	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64
	sets        uint64
	deletes     uint64

	// latencyNsBits 保存EWMA延迟的float64位表示
	latencyNsBits uint64
}

// NewCollector creates an empty collector.
//
// NewCollector 创建一个空的收集器。
func NewCollector() *Collector {
	return &Collector{}
}

// RecordHit 记录一次命中及其访问延迟
func (c *Collector) RecordHit(latency time.Duration) {
	atomic.AddUint64(&c.hits, 1)
	c.recordLatency(latency)
}

// RecordMiss 记录一次未命中及其访问延迟
func (c *Collector) RecordMiss(latency time.Duration) {
	atomic.AddUint64(&c.misses, 1)
	c.recordLatency(latency)
}

// RecordEvictions 记录n次淘汰
func (c *Collector) RecordEvictions(n int) {
	if n > 0 {
		atomic.AddUint64(&c.evictions, uint64(n))
	}
}

// RecordExpiration 记录一次过期清除
func (c *Collector) RecordExpiration() {
	atomic.AddUint64(&c.expirations, 1)
}

// RecordSet 记录一次写入
func (c *Collector) RecordSet() {
	atomic.AddUint64(&c.sets, 1)
}

// RecordDelete 记录一次删除
func (c *Collector) RecordDelete() {
	atomic.AddUint64(&c.deletes, 1)
}

// recordLatency 用EWMA更新滚动平均访问延迟
func (c *Collector) recordLatency(latency time.Duration) {
	sample := float64(latency.Nanoseconds())
	for {
		oldBits := atomic.LoadUint64(&c.latencyNsBits)
		old := math.Float64frombits(oldBits)
		var updated float64
		if old == 0 {
			updated = sample
		} else {
			updated = old + ewmaAlpha*(sample-old)
		}
		if atomic.CompareAndSwapUint64(&c.latencyNsBits, oldBits, math.Float64bits(updated)) {
			return
		}
	}
}

// Reset 将所有计数器清零，仅由所属管理器的Clear调用
func (c *Collector) Reset() {
	atomic.StoreUint64(&c.hits, 0)
	atomic.StoreUint64(&c.misses, 0)
	atomic.StoreUint64(&c.evictions, 0)
	atomic.StoreUint64(&c.expirations, 0)
	atomic.StoreUint64(&c.sets, 0)
	atomic.StoreUint64(&c.deletes, 0)
	atomic.StoreUint64(&c.latencyNsBits, 0)
}

// Snapshot is a read-only copy of the collector state.
//
// Snapshot 是收集器状态的只读副本。
type Snapshot struct {
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
	Sets        uint64
	Deletes     uint64

	// HitRate is hits/(hits+misses), 0 when no requests yet
	// HitRate 是 hits/(hits+misses)，尚无请求时为0
	HitRate float64

	// AvgAccessLatency is the rolling average lookup latency
	// AvgAccessLatency 是滚动平均查找延迟
	AvgAccessLatency time.Duration
}

// Snapshot returns a consistent-enough copy of the current counters.
//
// Snapshot 返回当前计数器的副本。
func (c *Collector) Snapshot() Snapshot {
	s := Snapshot{
		Hits:        atomic.LoadUint64(&c.hits),
		Misses:      atomic.LoadUint64(&c.misses),
		Evictions:   atomic.LoadUint64(&c.evictions),
		Expirations: atomic.LoadUint64(&c.expirations),
		Sets:        atomic.LoadUint64(&c.sets),
		Deletes:     atomic.LoadUint64(&c.deletes),
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	s.AvgAccessLatency = time.Duration(math.Float64frombits(atomic.LoadUint64(&c.latencyNsBits)))
	return s
}
