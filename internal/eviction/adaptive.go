package eviction

import (
	"sync"
	"time"

	"github.com/yourusername/tiercache/internal/storage"
)

const (
	// adaptiveWindow 是评估命中率的请求窗口大小
	adaptiveWindow = 512

	// adaptiveSwitchDelta 是触发策略切换所需的命中率下降幅度
	adaptiveSwitchDelta = 0.05
)

// Adaptive switches between LRU and LFU based on observed hit-rate deltas.
//
// It measures the hit rate over fixed-size request windows. When a completed
// window's hit rate falls more than adaptiveSwitchDelta below the best window
// seen under the active policy, the workload has likely shifted and the other
// policy is given a chance; its best-rate memory starts fresh. Until a first
// window completes, Adaptive behaves as LRU.
//
// Adaptive 根据观察到的命中率变化在LRU和LFU之间切换。
//
// 它在固定大小的请求窗口上测量命中率。当一个完整窗口的命中率比当前策略下
// 见过的最佳窗口低超过 adaptiveSwitchDelta 时，工作负载可能已经改变，
// 于是给另一个策略机会；其最佳命中率记录重新开始。
// 在第一个窗口完成之前，Adaptive 的行为与LRU相同。
type Adaptive struct {
	mu sync.Mutex

	lru LRU
	lfu LFU

	useLFU   bool
	hits     int
	requests int
	bestRate float64
	hasBest  bool
}

// NewAdaptive creates an adaptive strategy starting in LRU mode.
//
// NewAdaptive 创建一个以LRU模式启动的自适应策略。
func NewAdaptive() *Adaptive {
	return &Adaptive{}
}

// Observe 记录一次查找结果，窗口结束时评估是否切换策略
func (a *Adaptive) Observe(hit bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.requests++
	if hit {
		a.hits++
	}
	if a.requests < adaptiveWindow {
		return
	}

	rate := float64(a.hits) / float64(a.requests)
	a.hits = 0
	a.requests = 0

	if !a.hasBest {
		a.bestRate = rate
		a.hasBest = true
		return
	}

	if rate > a.bestRate {
		a.bestRate = rate
		return
	}

	if a.bestRate-rate > adaptiveSwitchDelta {
		a.useLFU = !a.useLFU
		a.bestRate = rate
	}
}

// SelectVictims 委托给当前活动的策略
func (a *Adaptive) SelectVictims(entries map[string]*storage.Entry, target int, now time.Time) []string {
	a.mu.Lock()
	useLFU := a.useLFU
	a.mu.Unlock()

	if useLFU {
		return a.lfu.SelectVictims(entries, target, now)
	}
	return a.lru.SelectVictims(entries, target, now)
}

// Name 返回"adaptive"
func (a *Adaptive) Name() string { return "adaptive" }

// Active returns the name of the policy currently in effect.
//
// Active 返回当前生效的策略名称。
func (a *Adaptive) Active() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.useLFU {
		return "lfu"
	}
	return "lru"
}
