// Package strategy maps the dashboard's logical data categories to
// recommended cache configurations and derives configurations from runtime
// characteristics. The static table covers the closed set of categories the
// higher layers cache (test results, API responses, session data, …); the
// recommender handles ad hoc payloads.
//
// Package strategy 将仪表板的逻辑数据类别映射到推荐的缓存配置，
// 并根据运行时特征推导配置。静态表覆盖上层缓存的封闭类别集合
// （测试结果、API响应、会话数据等）；推荐器处理临时负载。
package strategy

import (
	"fmt"
	"time"

	"github.com/yourusername/tiercache/pkg/errors"
)

// Placement determines which storage tiers hold a category's entries.
//
// Placement 决定哪些存储层保存某类别的条目。
type Placement string

const (
	// MemoryFirst keeps entries in memory, falling back to the persisted
	// tier on restart.
	// MemoryFirst 将条目保存在内存中，重启时回退到持久化层。
	MemoryFirst Placement = "memory-first"

	// MemoryOnly never touches the persisted tier.
	// MemoryOnly 绝不接触持久化层。
	MemoryOnly Placement = "memory-only"

	// WriteThrough writes to memory and the persisted tier synchronously.
	// WriteThrough 同步写入内存和持久化层。
	WriteThrough Placement = "write-through"

	// StorageBacked keeps entries only in the persisted tier.
	// StorageBacked 只将条目保存在持久化层。
	StorageBacked Placement = "storage-backed"
)

// Priority ranks how reluctant the cache should be to evict a category.
//
// Priority 表示缓存对淘汰某类别的不情愿程度。
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Recommended TTL tiers. The dashboard's data rarely needs finer grading.
//
// 推荐的TTL档位。仪表板的数据很少需要更细的分级。
const (
	TTLShort    = 5 * time.Minute
	TTLModerate = 30 * time.Minute
	TTLLong     = 24 * time.Hour

	// MaxTTL 是任何配置允许的最长生存时间
	MaxTTL = 7 * 24 * time.Hour

	// MaxEntrySize 是任何配置允许的最大条目大小
	MaxEntrySize = 100 << 20 // 100 MiB
)

// Profile is a recommended cache configuration tuple for one data category.
//
// Profile 是一个数据类别的推荐缓存配置元组。
type Profile struct {
	// Placement 存储层选择
	Placement Placement `json:"placement" yaml:"placement"`

	// TTL 条目生存时间
	TTL time.Duration `json:"ttl" yaml:"ttl"`

	// Priority 淘汰优先级
	Priority Priority `json:"priority" yaml:"priority"`

	// Compression 是否压缩大负载
	Compression bool `json:"compression" yaml:"compression"`

	// MaxSize 可选的单条目大小上限（字节）；0表示未设置
	MaxSize int64 `json:"max_size,omitempty" yaml:"max_size,omitempty"`
}

// Validate rejects profiles with out-of-range TTL or size limits.
// This is programmer error and is the only failure class the cache surfaces
// synchronously.
//
// Validate 拒绝TTL或大小限制超出范围的配置。
// 这是程序员错误，是缓存同步暴露的唯一故障类别。
//
// Returns:
//   - error: errors.ErrInvalidConfig wrapped with the offending field, or nil
func (p Profile) Validate() error {
	if p.TTL <= 0 {
		return fmt.Errorf("%w: ttl must be positive, got %v", errors.ErrInvalidConfig, p.TTL)
	}
	if p.TTL > MaxTTL {
		return fmt.Errorf("%w: ttl %v exceeds maximum %v", errors.ErrInvalidConfig, p.TTL, MaxTTL)
	}
	if p.MaxSize < 0 {
		return fmt.Errorf("%w: max size must not be negative, got %d", errors.ErrInvalidConfig, p.MaxSize)
	}
	if p.MaxSize > MaxEntrySize {
		return fmt.Errorf("%w: max size %d exceeds maximum %d", errors.ErrInvalidConfig, p.MaxSize, MaxEntrySize)
	}
	return nil
}

// Category labels one kind of data the dashboard caches.
//
// Category 标记仪表板缓存的一种数据。
type Category string

const (
	CategoryUserProfile   Category = "user_profile"
	CategoryTestResult    Category = "test_result"
	CategoryAPIResponse   Category = "api_response"
	CategorySession       Category = "session"
	CategoryStaticAsset   Category = "static_asset"
	CategoryFormState     Category = "form_state"
	CategoryMetricsRollup Category = "metrics_rollup"
)

// table 是类别到推荐配置的静态映射
var table = map[Category]Profile{
	CategoryUserProfile: {
		Placement:   WriteThrough,
		TTL:         TTLLong,
		Priority:    PriorityHigh,
		Compression: false,
	},
	CategoryTestResult: {
		Placement:   StorageBacked,
		TTL:         TTLLong,
		Priority:    PriorityNormal,
		Compression: true,
		MaxSize:     10 << 20,
	},
	CategoryAPIResponse: {
		Placement:   MemoryFirst,
		TTL:         TTLShort,
		Priority:    PriorityNormal,
		Compression: false,
		MaxSize:     1 << 20,
	},
	CategorySession: {
		Placement:   WriteThrough,
		TTL:         TTLModerate,
		Priority:    PriorityCritical,
		Compression: false,
	},
	CategoryStaticAsset: {
		Placement:   StorageBacked,
		TTL:         TTLLong,
		Priority:    PriorityLow,
		Compression: true,
	},
	CategoryFormState: {
		Placement:   MemoryOnly,
		TTL:         TTLShort,
		Priority:    PriorityLow,
		Compression: false,
	},
	CategoryMetricsRollup: {
		Placement:   MemoryFirst,
		TTL:         TTLModerate,
		Priority:    PriorityNormal,
		Compression: true,
		MaxSize:     5 << 20,
	},
}

// For returns the recommended profile for a category.
//
// For 返回某类别的推荐配置。
//
// Parameters:
//   - category: One of the Category constants
//
// Returns:
//   - Profile: The recommended profile
//   - bool: False if the category is not in the table
func For(category Category) (Profile, bool) {
	p, ok := table[category]
	return p, ok
}

// Categories returns all categories in the static table.
//
// Categories 返回静态表中的所有类别。
func Categories() []Category {
	cats := make([]Category, 0, len(table))
	for c := range table {
		cats = append(cats, c)
	}
	return cats
}

// Frequency grades how often data is accessed or updated.
//
// Frequency 表示数据被访问或更新的频率等级。
type Frequency string

const (
	FrequencyLow    Frequency = "low"
	FrequencyMedium Frequency = "medium"
	FrequencyHigh   Frequency = "high"
)

// Importance grades how costly a loss of the data is.
//
// Importance 表示数据丢失的代价等级。
type Importance string

const (
	ImportanceNormal   Importance = "normal"
	ImportanceCritical Importance = "critical"
)

// Durability grades how long data stays meaningful.
//
// Durability 表示数据保持有意义的时间等级。
type Durability string

const (
	DurabilityTemporary  Durability = "temporary"
	DurabilitySession    Durability = "session"
	DurabilityPersistent Durability = "persistent"
)

// Characteristics describe an ad hoc payload for the recommender.
//
// Characteristics 描述供推荐器使用的临时负载。
type Characteristics struct {
	SizeBytes       int64
	AccessFrequency Frequency
	UpdateFrequency Frequency
	Importance      Importance
	Durability      Durability
}

// Recommend derives a profile from runtime characteristics. Rules are
// applied in order; the first match wins.
//
// Recommend 根据运行时特征推导配置。规则按顺序应用；第一个匹配者生效。
//
// Parameters:
//   - ch: The payload characteristics
//
// Returns:
//   - Profile: The derived profile, always valid
func Recommend(ch Characteristics) Profile {
	// 规则1：超过1MiB的负载进入持久化层并压缩
	if ch.SizeBytes > 1<<20 {
		ttl := TTLModerate
		if ch.Durability == DurabilityTemporary {
			ttl = TTLShort
		}
		return Profile{
			Placement:   StorageBacked,
			TTL:         ttl,
			Priority:    PriorityNormal,
			Compression: true,
		}
	}

	// 规则2：高频访问优先内存；高频更新时写穿透保持两层一致
	if ch.AccessFrequency == FrequencyHigh {
		placement := MemoryFirst
		if ch.UpdateFrequency == FrequencyHigh {
			placement = WriteThrough
		}
		return Profile{
			Placement:   placement,
			TTL:         TTLModerate,
			Priority:    PriorityHigh,
			Compression: ch.SizeBytes > 10<<10,
		}
	}

	// 规则3：关键数据写穿透；持久数据获得长TTL
	if ch.Importance == ImportanceCritical {
		ttl := TTLModerate
		if ch.Durability == DurabilityPersistent {
			ttl = TTLLong
		}
		return Profile{
			Placement:   WriteThrough,
			TTL:         ttl,
			Priority:    PriorityCritical,
			Compression: false,
		}
	}

	// 规则4：临时数据只进内存，短TTL
	if ch.Durability == DurabilityTemporary {
		return Profile{
			Placement:   MemoryOnly,
			TTL:         TTLShort,
			Priority:    PriorityLow,
			Compression: false,
		}
	}

	// 规则5：默认
	return Profile{
		Placement:   MemoryFirst,
		TTL:         TTLModerate,
		Priority:    PriorityNormal,
		Compression: false,
	}
}
