package cache

import (
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/yourusername/tiercache/internal/compress"
	"github.com/yourusername/tiercache/internal/eviction"
	"github.com/yourusername/tiercache/pkg/codec"
	"github.com/yourusername/tiercache/pkg/errors"
	"github.com/yourusername/tiercache/pkg/strategy"
)

// Config represents the configuration for one cache manager instance.
// Zero values are filled in by NewDefaultConfig and Validate rejects
// out-of-range fields before any resource is allocated.
//
// Config 表示一个缓存管理器实例的配置。
// 零值由NewDefaultConfig填充，Validate在分配任何资源之前拒绝超出范围的字段。
type Config struct {
	// Name identifies this cache instance in stats and metric labels
	// Name 在统计信息和指标标签中标识此缓存实例
	Name string `json:"name" yaml:"name"`

	// Namespace prefixes every generated key, isolating instances that
	// share a persisted directory
	// Namespace 为每个生成的键加前缀，隔离共享持久化目录的实例
	Namespace string `json:"namespace" yaml:"namespace"`

	// MaxEntries is the maximum number of entries before eviction; 0 means unlimited
	// MaxEntries 是淘汰前的最大条目数；0表示无限制
	MaxEntries int `json:"max_entries" yaml:"max_entries"`

	// DefaultTTL applies to entries written without an explicit TTL
	// DefaultTTL 应用于未指定显式TTL的写入条目
	DefaultTTL time.Duration `json:"default_ttl" yaml:"default_ttl"`

	// EvictionPolicy selects the strategy: lru, lfu, fifo, ttl, adaptive
	// EvictionPolicy 选择策略：lru、lfu、fifo、ttl、adaptive
	EvictionPolicy string `json:"eviction_policy" yaml:"eviction_policy"`

	// EnableCompression turns on transparent compression of large payloads
	// EnableCompression 开启大负载的透明压缩
	EnableCompression bool `json:"enable_compression" yaml:"enable_compression"`

	// CompressionThreshold is the minimum payload size in bytes to compress
	// CompressionThreshold 是压缩的最小负载大小（字节）
	CompressionThreshold int `json:"compression_threshold" yaml:"compression_threshold"`

	// CompressionAlgorithm selects the compressor: gzip, brotli
	// CompressionAlgorithm 选择压缩器：gzip、brotli
	CompressionAlgorithm string `json:"compression_algorithm" yaml:"compression_algorithm"`

	// Persistence adds a write-through persisted tier below the memory tier
	// Persistence 在内存层之下添加写穿透的持久化层
	Persistence bool `json:"persistence" yaml:"persistence"`

	// PersistDir is the directory holding persisted entries, required
	// when Persistence is on
	// PersistDir 是保存持久化条目的目录，Persistence开启时必填
	PersistDir string `json:"persist_dir" yaml:"persist_dir"`

	// PersistQuotaBytes is the shared byte budget of PersistDir; 0 means unlimited
	// PersistQuotaBytes 是PersistDir的共享字节预算；0表示无限制
	PersistQuotaBytes int64 `json:"persist_quota_bytes" yaml:"persist_quota_bytes"`

	// CleanupInterval is the period of the background expiry sweep
	// CleanupInterval 是后台过期清扫的周期
	CleanupInterval time.Duration `json:"cleanup_interval" yaml:"cleanup_interval"`

	// CodecName selects the serializer: json, gob
	// CodecName 选择序列化器：json、gob
	CodecName string `json:"codec" yaml:"codec"`

	// Codec overrides CodecName with a concrete codec, used by callers
	// that register custom serializers
	// Codec 用具体编解码器覆盖CodecName，供注册自定义序列化器的调用方使用
	Codec codec.Codec `json:"-" yaml:"-"`

	// Compressor overrides CompressionAlgorithm with a concrete compressor
	// Compressor 用具体压缩器覆盖CompressionAlgorithm
	Compressor compress.Compressor `json:"-" yaml:"-"`

	// Filesystem overrides the persisted tier's filesystem, used by tests
	// Filesystem 覆盖持久化层的文件系统，供测试使用
	Filesystem afero.Fs `json:"-" yaml:"-"`

	// Clock overrides the time source, used by tests to simulate expiry
	// Clock 覆盖时间来源，供测试模拟过期使用
	Clock func() time.Time `json:"-" yaml:"-"`
}

// NewDefaultConfig creates a configuration with sensible defaults:
// an in-memory LRU cache holding up to 10000 entries for one hour each.
//
// NewDefaultConfig 创建具有合理默认值的配置：
// 一个内存LRU缓存，最多保存10000个条目，每个条目保存一小时。
//
// Returns:
//   - *Config: A new configuration instance with default values
func NewDefaultConfig() *Config {
	return &Config{
		Name:                 "tiercache",
		Namespace:            "app",
		MaxEntries:           10000,
		DefaultTTL:           time.Hour,
		EvictionPolicy:       "lru",
		EnableCompression:    false,
		CompressionThreshold: 4096,
		CompressionAlgorithm: "gzip",
		Persistence:          false,
		PersistQuotaBytes:    50 << 20,
		CleanupInterval:      time.Minute,
		CodecName:            "json",
	}
}

// Validate checks the configuration for errors.
// It is called by New before any resource is allocated; a validation
// failure is the only error class surfaced at construction time.
//
// Validate 检查配置是否有错误。
// 它由New在分配任何资源之前调用；验证失败是构造时暴露的唯一错误类别。
//
// Returns:
//   - error: errors.ErrInvalidConfig wrapped with the offending field, or nil
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name must not be empty", errors.ErrInvalidConfig)
	}
	if c.Namespace == "" {
		return fmt.Errorf("%w: namespace must not be empty", errors.ErrInvalidConfig)
	}
	if c.MaxEntries < 0 {
		return fmt.Errorf("%w: max entries must not be negative, got %d", errors.ErrInvalidConfig, c.MaxEntries)
	}
	if c.DefaultTTL <= 0 {
		return fmt.Errorf("%w: default ttl must be positive, got %v", errors.ErrInvalidConfig, c.DefaultTTL)
	}
	if c.DefaultTTL > strategy.MaxTTL {
		return fmt.Errorf("%w: default ttl %v exceeds maximum %v", errors.ErrInvalidConfig, c.DefaultTTL, strategy.MaxTTL)
	}
	if _, err := eviction.New(c.EvictionPolicy); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}
	if c.EnableCompression {
		if c.CompressionThreshold < 0 {
			return fmt.Errorf("%w: compression threshold must not be negative, got %d", errors.ErrInvalidConfig, c.CompressionThreshold)
		}
		if c.Compressor == nil {
			if _, err := compress.New(c.CompressionAlgorithm); err != nil {
				return fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
			}
		}
	}
	if c.Persistence {
		if c.PersistDir == "" {
			return fmt.Errorf("%w: persist dir is required when persistence is on", errors.ErrInvalidConfig)
		}
		if c.PersistQuotaBytes < 0 {
			return fmt.Errorf("%w: persist quota must not be negative, got %d", errors.ErrInvalidConfig, c.PersistQuotaBytes)
		}
	}
	if c.CleanupInterval < time.Second {
		return fmt.Errorf("%w: cleanup interval must be at least 1s, got %v", errors.ErrInvalidConfig, c.CleanupInterval)
	}
	if c.Codec == nil {
		if _, err := codec.GetCodec(c.CodecName); err != nil {
			return fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
		}
	}
	return nil
}

// WithName sets the instance name and returns the config for chaining.
// WithName 设置实例名称并返回配置以便链式调用。
func (c *Config) WithName(name string) *Config {
	c.Name = name
	return c
}

// WithNamespace sets the key namespace and returns the config for chaining.
// WithNamespace 设置键命名空间并返回配置以便链式调用。
func (c *Config) WithNamespace(namespace string) *Config {
	c.Namespace = namespace
	return c
}

// WithMaxEntries sets the entry limit and returns the config for chaining.
// WithMaxEntries 设置条目上限并返回配置以便链式调用。
func (c *Config) WithMaxEntries(n int) *Config {
	c.MaxEntries = n
	return c
}

// WithDefaultTTL sets the default TTL and returns the config for chaining.
// WithDefaultTTL 设置默认TTL并返回配置以便链式调用。
func (c *Config) WithDefaultTTL(ttl time.Duration) *Config {
	c.DefaultTTL = ttl
	return c
}

// WithEvictionPolicy sets the strategy name and returns the config for chaining.
// WithEvictionPolicy 设置策略名称并返回配置以便链式调用。
func (c *Config) WithEvictionPolicy(policy string) *Config {
	c.EvictionPolicy = policy
	return c
}

// WithCompression enables compression above the threshold and returns the
// config for chaining.
// WithCompression 启用超过阈值的压缩并返回配置以便链式调用。
func (c *Config) WithCompression(threshold int) *Config {
	c.EnableCompression = true
	c.CompressionThreshold = threshold
	return c
}

// WithPersistence enables the persisted tier and returns the config for chaining.
// WithPersistence 启用持久化层并返回配置以便链式调用。
func (c *Config) WithPersistence(dir string, quotaBytes int64) *Config {
	c.Persistence = true
	c.PersistDir = dir
	c.PersistQuotaBytes = quotaBytes
	return c
}

// WithCleanupInterval sets the sweep period and returns the config for chaining.
// WithCleanupInterval 设置清扫周期并返回配置以便链式调用。
func (c *Config) WithCleanupInterval(interval time.Duration) *Config {
	c.CleanupInterval = interval
	return c
}

// WithCodec sets a concrete codec and returns the config for chaining.
// WithCodec 设置具体编解码器并返回配置以便链式调用。
func (c *Config) WithCodec(cd codec.Codec) *Config {
	c.Codec = cd
	return c
}
