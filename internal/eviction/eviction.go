// Package eviction provides the pluggable policies the cache manager consults
// when capacity is exceeded. Every strategy works on a snapshot of entries
// and returns victims in eviction priority order; strategies hold no
// references into live storage.
//
// Ties on the primary sort key break by ascending creation time (oldest wins
// eviction), then by key, so victim selection is fully deterministic.
//
// Package eviction 提供缓存管理器在容量超限时咨询的可插拔策略。
// 每个策略在条目快照上工作，并按淘汰优先顺序返回牺牲者；
// 策略不持有对活动存储的引用。
//
// 主排序键相同时，按创建时间升序（最旧者先淘汰）、再按键名决胜，
// 因此牺牲者选择是完全确定性的。
package eviction

import (
	"sort"
	"time"

	"github.com/yourusername/tiercache/internal/storage"
	"github.com/yourusername/tiercache/pkg/errors"
)

// Strategy selects eviction victims from a snapshot of entries.
//
// Strategy 从条目快照中选择淘汰牺牲者。
type Strategy interface {
	// SelectVictims returns exactly min(target, len(entries)) keys in
	// eviction priority order: the first key is evicted first.
	//
	// SelectVictims 按淘汰优先顺序返回恰好 min(target, len(entries)) 个键：
	// 第一个键最先被淘汰。
	//
	// Parameters:
	//   - entries: A snapshot of all cached entries
	//   - target: The requested number of victims
	//   - now: The instant used for expiry-related ordering
	//
	// Returns:
	//   - []string: Victim keys, evict-first order
	SelectVictims(entries map[string]*storage.Entry, target int, now time.Time) []string

	// Name returns the registered strategy name.
	// Name 返回注册的策略名称。
	Name() string
}

// Observer is implemented by strategies that adapt to observed cache
// behavior. The manager reports each lookup outcome after it is resolved.
//
// Observer 由适应观察到的缓存行为的策略实现。
// 管理器在每次查找解析后报告其结果。
type Observer interface {
	Observe(hit bool)
}

// candidate 参与排序的快照条目
type candidate struct {
	key   string
	entry *storage.Entry
}

// sortAndTake 按less排序候选者并截取target个键，统一应用决胜规则
func sortAndTake(entries map[string]*storage.Entry, target int, less func(a, b candidate) int) []string {
	if target > len(entries) {
		target = len(entries)
	}
	if target <= 0 {
		return nil
	}

	candidates := make([]candidate, 0, len(entries))
	for k, e := range entries {
		candidates = append(candidates, candidate{key: k, entry: e})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if c := less(candidates[i], candidates[j]); c != 0 {
			return c < 0
		}
		// 决胜：创建时间较早者先淘汰，其次按键名
		if !candidates[i].entry.CreatedAt.Equal(candidates[j].entry.CreatedAt) {
			return candidates[i].entry.CreatedAt.Before(candidates[j].entry.CreatedAt)
		}
		return candidates[i].key < candidates[j].key
	})

	victims := make([]string, target)
	for i := 0; i < target; i++ {
		victims[i] = candidates[i].key
	}
	return victims
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// LRU evicts the least recently accessed entries first.
//
// LRU 最先淘汰最近最少访问的条目。
type LRU struct{}

// SelectVictims 按LastAccessedAt升序选择牺牲者
func (LRU) SelectVictims(entries map[string]*storage.Entry, target int, now time.Time) []string {
	return sortAndTake(entries, target, func(a, b candidate) int {
		return compareTime(a.entry.LastAccessedAt, b.entry.LastAccessedAt)
	})
}

// Name 返回"lru"
func (LRU) Name() string { return "lru" }

// LFU evicts the least frequently accessed entries first.
//
// LFU 最先淘汰访问频率最低的条目。
type LFU struct{}

// SelectVictims 按AccessCount升序选择牺牲者
func (LFU) SelectVictims(entries map[string]*storage.Entry, target int, now time.Time) []string {
	return sortAndTake(entries, target, func(a, b candidate) int {
		return compareInt64(a.entry.AccessCount, b.entry.AccessCount)
	})
}

// Name 返回"lfu"
func (LFU) Name() string { return "lfu" }

// FIFO evicts the oldest-created entries first.
//
// FIFO 最先淘汰创建最早的条目。
type FIFO struct{}

// SelectVictims 按CreatedAt升序选择牺牲者
func (FIFO) SelectVictims(entries map[string]*storage.Entry, target int, now time.Time) []string {
	return sortAndTake(entries, target, func(a, b candidate) int {
		return compareTime(a.entry.CreatedAt, b.entry.CreatedAt)
	})
}

// Name 返回"fifo"
func (FIFO) Name() string { return "fifo" }

// TTLAware evicts already-expired entries first regardless of the requested
// count, then entries with the smallest remaining lifetime.
//
// TTLAware 无论请求数量如何都最先淘汰已过期的条目，
// 然后淘汰剩余生存时间最短的条目。
type TTLAware struct{}

// SelectVictims 先返回全部已过期条目，再按剩余TTL升序补足
func (TTLAware) SelectVictims(entries map[string]*storage.Entry, target int, now time.Time) []string {
	if target > len(entries) {
		target = len(entries)
	}
	if target <= 0 {
		return nil
	}

	expired := make(map[string]*storage.Entry)
	alive := make(map[string]*storage.Entry)
	for k, e := range entries {
		if e.IsExpired(now) {
			expired[k] = e
		} else {
			alive[k] = e
		}
	}

	// 已过期条目总是可淘汰的，按创建时间排序以保持确定性
	victims := sortAndTake(expired, len(expired), func(a, b candidate) int {
		return compareTime(a.entry.CreatedAt, b.entry.CreatedAt)
	})
	if len(victims) >= target {
		return victims[:target]
	}

	rest := sortAndTake(alive, target-len(victims), func(a, b candidate) int {
		return compareInt64(int64(a.entry.RemainingTTL(now)), int64(b.entry.RemainingTTL(now)))
	})
	return append(victims, rest...)
}

// Name 返回"ttl"
func (TTLAware) Name() string { return "ttl" }

// New returns a strategy by name.
// Supported names: "lru", "lfu", "fifo", "ttl", "adaptive".
//
// New 通过名称返回策略。
// 支持的名称："lru"、"lfu"、"fifo"、"ttl"、"adaptive"。
//
// Parameters:
//   - name: The strategy name; empty selects "lru"
//
// Returns:
//   - Strategy: The requested strategy
//   - error: errors.ErrUnknownStrategy for unregistered names
func New(name string) (Strategy, error) {
	switch name {
	case "lru", "":
		return LRU{}, nil
	case "lfu":
		return LFU{}, nil
	case "fifo":
		return FIFO{}, nil
	case "ttl":
		return TTLAware{}, nil
	case "adaptive":
		return NewAdaptive(), nil
	default:
		return nil, errors.ErrUnknownStrategy
	}
}
