// Package ttl 提供缓存条目生命周期管理
// 周期清扫限制了只写不读的键造成的无界增长，与访问触发的惰性过期互补
package ttl

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yourusername/tiercache/internal/storage"
)

const defaultSweepInterval = time.Minute

// Sweeper periodically scans a backend and deletes expired entries.
//
// Sweeper 周期性地扫描后端并删除过期条目。
type Sweeper struct {
	backend   storage.Backend
	interval  time.Duration
	now       func() time.Time
	onExpired func(key string)

	closeChan chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	sweepCount   uint64
	expiredCount uint64
}

// SweeperConfig 清扫器配置
type SweeperConfig struct {
	// Interval 是两次清扫之间的时间；非正值使用默认的一分钟
	Interval time.Duration

	// Now 覆盖时钟来源，测试中用于模拟时间
	Now func() time.Time

	// OnExpired 是每个被清除的键的回调，可为nil
	OnExpired func(key string)
}

// NewSweeper creates a sweeper over the backend and starts its loop.
// Call Close to stop the background goroutine.
//
// NewSweeper 在后端之上创建清扫器并启动其循环。
// 调用Close停止后台协程。
func NewSweeper(backend storage.Backend, config *SweeperConfig) *Sweeper {
	if config == nil {
		config = &SweeperConfig{}
	}
	interval := config.Interval
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}

	s := &Sweeper{
		backend:   backend,
		interval:  interval,
		now:       now,
		onExpired: config.OnExpired,
		closeChan: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.loop()
	return s
}

// loop 清扫循环
func (s *Sweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.closeChan:
			return
		}
	}
}

// Sweep scans all entries once and deletes the expired ones, returning the
// number removed. It is also the body of the periodic loop.
//
// Sweep 扫描所有条目一次并删除过期条目，返回删除的数量。
// 它也是周期循环的主体。
func (s *Sweeper) Sweep(ctx context.Context) int {
	items, err := s.backend.Items(ctx)
	if err != nil {
		// 存储故障降级为无操作，下个周期重试
		return 0
	}

	now := s.now()
	removed := 0
	for key, entry := range items {
		if !entry.IsExpired(now) {
			continue
		}
		ok, err := s.backend.Delete(ctx, key)
		if err != nil || !ok {
			continue
		}
		removed++
		if s.onExpired != nil {
			s.onExpired(key)
		}
	}

	atomic.AddUint64(&s.sweepCount, 1)
	atomic.AddUint64(&s.expiredCount, uint64(removed))
	return removed
}

// Stats 返回清扫器的累计统计
func (s *Sweeper) Stats() (sweeps, expired uint64) {
	return atomic.LoadUint64(&s.sweepCount), atomic.LoadUint64(&s.expiredCount)
}

// Close 停止清扫循环；可安全地多次调用
func (s *Sweeper) Close() {
	s.closeOnce.Do(func() {
		close(s.closeChan)
	})
	s.wg.Wait()
}
