// Package configs provides configuration structures and utilities for the
// tiered cache. It offers mechanisms for loading, validating, and saving
// configuration from JSON and YAML files, plus hot reloading through Viper.
// The structured sections here feed one or more cache instances; the bridge
// to a runtime instance is ToCacheConfig.
//
// Package configs 提供分层缓存的配置结构和工具。
// 它提供从JSON和YAML文件加载、验证和保存配置的机制，
// 以及通过Viper实现的热重载。这里的结构化部分供一个或多个缓存实例使用；
// 到运行时实例的桥接是ToCacheConfig。
package configs

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/tiercache/pkg/cache"
	"github.com/yourusername/tiercache/pkg/strategy"
)

// Config represents the complete configuration for the cache layer.
// It contains all settings needed to configure the cache system,
// organized into logical sections for different components.
//
// Config 表示缓存层的完整配置。
// 它包含配置缓存系统所需的所有设置，
// 按不同组件的逻辑部分进行组织。
type Config struct {
	// Cache contains core cache settings like capacity and TTL
	// Cache 包含核心缓存设置，如容量和TTL
	Cache CacheConfig `json:"cache" yaml:"cache"`

	// Storage defines the persisted tier and serialization
	// Storage 定义持久化层和序列化
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Eviction defines how items are removed when the cache is full
	// Eviction 定义当缓存已满时如何移除项目
	Eviction EvictionConfig `json:"eviction" yaml:"eviction"`

	// Compression configures transparent compression of large payloads
	// Compression 配置大负载的透明压缩
	Compression CompressionConfig `json:"compression" yaml:"compression"`

	// Metrics configures performance monitoring and statistics
	// Metrics 配置性能监控和统计
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Log configures the logging behavior
	// Log 配置日志行为
	Log LogConfig `json:"log" yaml:"log"`

	// Extensions configures optional features like hot reloading
	// Extensions 配置可选功能，如热重载
	Extensions ExtensionsConfig `json:"extensions" yaml:"extensions"`

	// Extra allows for custom configuration options
	// Extra 允许自定义配置选项
	Extra map[string]interface{} `json:"extra" yaml:"extra"`
}

// CacheConfig contains settings for the cache itself.
//
// CacheConfig 包含缓存本身的设置。
type CacheConfig struct {
	// Enable determines whether the cache is active
	// Enable 确定缓存是否处于活动状态
	Enable bool `json:"enable" yaml:"enable"`

	// Name is the identifier for this cache instance
	// Name 是此缓存实例的标识符
	Name string `json:"name" yaml:"name"`

	// Namespace prefixes every generated key
	// Namespace 为每个生成的键加前缀
	Namespace string `json:"namespace" yaml:"namespace"`

	// MaxEntries is the maximum number of items the cache can hold (0 = unlimited)
	// MaxEntries 是缓存可以容纳的最大项目数（0 = 无限制）
	MaxEntries int `json:"max_entries" yaml:"max_entries"`

	// DefaultTTL is the default time-to-live for cache entries
	// DefaultTTL 是缓存条目的默认生存时间
	DefaultTTL time.Duration `json:"default_ttl" yaml:"default_ttl"`

	// CleanupInterval is how often expired items are removed
	// CleanupInterval 是清除过期项目的频率
	CleanupInterval time.Duration `json:"cleanup_interval" yaml:"cleanup_interval"`
}

// StorageConfig contains settings for the storage tiers.
//
// StorageConfig 包含存储层的设置。
type StorageConfig struct {
	// Persistence adds a write-through persisted tier below memory
	// Persistence 在内存之下添加写穿透的持久化层
	Persistence bool `json:"persistence" yaml:"persistence"`

	// PersistDir is the directory holding persisted entries
	// PersistDir 是保存持久化条目的目录
	PersistDir string `json:"persist_dir" yaml:"persist_dir"`

	// QuotaBytes is the shared byte budget of the persisted directory (0 = unlimited)
	// QuotaBytes 是持久化目录的共享字节预算（0 = 无限制）
	QuotaBytes int64 `json:"quota_bytes" yaml:"quota_bytes"`

	// Codec selects the serializer ("json", "gob")
	// Codec 选择序列化器（"json"、"gob"）
	Codec string `json:"codec" yaml:"codec"`
}

// EvictionConfig contains settings for the eviction policy.
//
// EvictionConfig 包含淘汰策略的设置。
type EvictionConfig struct {
	// Policy determines the eviction algorithm ("lru", "lfu", "fifo", "ttl", "adaptive")
	// Policy 确定淘汰算法（"lru"、"lfu"、"fifo"、"ttl"、"adaptive"）
	Policy string `json:"policy" yaml:"policy"`
}

// CompressionConfig contains settings for transparent compression.
//
// CompressionConfig 包含透明压缩的设置。
type CompressionConfig struct {
	// Enable turns on compression of payloads above the threshold
	// Enable 开启超过阈值的负载压缩
	Enable bool `json:"enable" yaml:"enable"`

	// Threshold is the minimum size in bytes for compression to be applied
	// Threshold 是应用压缩的最小大小（字节）
	Threshold int `json:"threshold" yaml:"threshold"`

	// Algorithm selects the compressor ("gzip", "brotli")
	// Algorithm 选择压缩器（"gzip"、"brotli"）
	Algorithm string `json:"algorithm" yaml:"algorithm"`
}

// MetricsConfig contains settings for metrics collection.
//
// MetricsConfig 包含指标收集的设置。
type MetricsConfig struct {
	// Enable determines whether the Prometheus exporter is registered
	// Enable 确定是否注册Prometheus导出器
	Enable bool `json:"enable" yaml:"enable"`

	// PrometheusPort is the port for exposing Prometheus metrics
	// PrometheusPort 是暴露Prometheus指标的端口
	PrometheusPort int `json:"prometheus_port" yaml:"prometheus_port"`
}

// LogConfig contains settings for logging.
//
// LogConfig 包含日志记录的设置。
type LogConfig struct {
	// Level sets the minimum log level ("debug", "info", "warn", "error")
	// Level 设置最低日志级别（"debug"、"info"、"warn"、"error"）
	Level string `json:"level" yaml:"level"`

	// Format specifies the log format ("text", "json")
	// Format 指定日志格式（"text"、"json"）
	Format string `json:"format" yaml:"format"`

	// Output determines where logs are written ("stdout", "stderr", "file")
	// Output 确定日志写入的位置（"stdout"、"stderr"、"file"）
	Output string `json:"output" yaml:"output"`

	// FilePath is the path to the log file when Output is "file"
	// FilePath 是当Output为"file"时的日志文件路径
	FilePath string `json:"file_path" yaml:"file_path"`
}

// ExtensionsConfig contains settings for extensions.
//
// ExtensionsConfig 包含扩展的设置。
type ExtensionsConfig struct {
	// HotReload contains settings for dynamic configuration reloading
	// HotReload 包含动态配置重新加载的设置
	HotReload HotReloadConfig `json:"hot_reload" yaml:"hot_reload"`
}

// HotReloadConfig contains settings for hot reloading.
//
// HotReloadConfig 包含热重载的设置。
type HotReloadConfig struct {
	// Enable determines whether hot reloading is active
	// Enable 确定是否启用热重载
	Enable bool `json:"enable" yaml:"enable"`

	// WatchInterval is the debounce window for change notifications
	// WatchInterval 是变更通知的去抖窗口
	WatchInterval time.Duration `json:"watch_interval" yaml:"watch_interval"`
}

// DefaultConfig returns a new Config with default values.
//
// DefaultConfig 返回具有默认值的新Config。
//
// Returns:
//   - *Config: A new configuration instance with default values
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Enable:          true,
			Name:            "tiercache",
			Namespace:       "app",
			MaxEntries:      10000,
			DefaultTTL:      time.Hour,
			CleanupInterval: time.Minute,
		},
		Storage: StorageConfig{
			Persistence: false,
			PersistDir:  "",
			QuotaBytes:  50 << 20,
			Codec:       "json",
		},
		Eviction: EvictionConfig{
			Policy: "lru",
		},
		Compression: CompressionConfig{
			Enable:    false,
			Threshold: 4096,
			Algorithm: "gzip",
		},
		Metrics: MetricsConfig{
			Enable:         true,
			PrometheusPort: 2112,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Extensions: ExtensionsConfig{
			HotReload: HotReloadConfig{
				Enable:        false,
				WatchInterval: 30 * time.Second,
			},
		},
		Extra: make(map[string]interface{}),
	}
}

// LoadFromFile loads configuration from a file.
// It supports both YAML and JSON formats, automatically
// detecting the format based on the file extension.
//
// LoadFromFile 从文件加载配置。
// 它支持YAML和JSON格式，根据文件扩展名自动检测格式。
//
// Parameters:
//   - filename: Path to the configuration file
//
// Returns:
//   - *Config: The loaded configuration
//   - error: An error if loading fails
func LoadFromFile(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration file: %w", err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".yaml", ".yml":
		return LoadFromReader(file, "yaml")
	case ".json":
		return LoadFromReader(file, "json")
	default:
		return nil, fmt.Errorf("unsupported configuration file format: %s", ext)
	}
}

// LoadFromReader loads configuration from an io.Reader.
// This allows loading configuration from sources other than files,
// such as network streams or in-memory data.
//
// LoadFromReader 从io.Reader加载配置。
// 这允许从文件以外的源加载配置，如网络流或内存中的数据。
//
// Parameters:
//   - r: The reader providing the configuration data
//   - format: The format of the data ("json", "yaml", or "yml")
//
// Returns:
//   - *Config: The loaded configuration
//   - error: An error if loading fails
func LoadFromReader(r io.Reader, format string) (*Config, error) {
	config := DefaultConfig()
	var err error

	switch strings.ToLower(format) {
	case "yaml", "yml":
		err = yaml.NewDecoder(r).Decode(config)
	case "json":
		err = json.NewDecoder(r).Decode(config)
	default:
		return nil, fmt.Errorf("unsupported configuration format: %s", format)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return config, nil
}

// SaveToFile saves configuration to a file.
// It supports both YAML and JSON formats, automatically
// selecting the format based on the file extension.
//
// SaveToFile 将配置保存到文件。
// 它支持YAML和JSON格式，根据文件扩展名自动选择格式。
//
// Parameters:
//   - filename: Path where the configuration will be saved
//
// Returns:
//   - error: An error if saving fails
func (c *Config) SaveToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".yaml", ".yml":
		encoder := yaml.NewEncoder(file)
		defer encoder.Close()
		err = encoder.Encode(c)
	case ".json":
		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		err = encoder.Encode(c)
	default:
		return fmt.Errorf("unsupported configuration file format: %s", ext)
	}

	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return nil
}

// Validate validates the configuration.
// It checks that all settings have valid values and
// that there are no conflicts or inconsistencies.
//
// Validate 验证配置。
// 它检查所有设置是否具有有效值，并且没有冲突或不一致。
//
// Returns:
//   - error: An error describing the validation failure, or nil if valid
func (c *Config) Validate() error {
	// 验证缓存设置
	if c.Cache.Name == "" {
		return fmt.Errorf("cache.name must not be empty")
	}
	if c.Cache.Namespace == "" {
		return fmt.Errorf("cache.namespace must not be empty")
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must be non-negative")
	}
	if c.Cache.DefaultTTL <= 0 {
		return fmt.Errorf("cache.default_ttl must be positive")
	}
	if c.Cache.DefaultTTL > strategy.MaxTTL {
		return fmt.Errorf("cache.default_ttl must not exceed %v", strategy.MaxTTL)
	}
	if c.Cache.CleanupInterval < time.Second {
		return fmt.Errorf("cache.cleanup_interval must be at least 1 second")
	}

	// 验证存储设置
	if c.Storage.Persistence && c.Storage.PersistDir == "" {
		return fmt.Errorf("storage.persist_dir must be specified when storage.persistence is on")
	}
	if c.Storage.QuotaBytes < 0 {
		return fmt.Errorf("storage.quota_bytes must be non-negative")
	}
	switch c.Storage.Codec {
	case "json", "gob":
	default:
		return fmt.Errorf("storage.codec must be one of: json, gob")
	}

	// 验证淘汰设置
	switch c.Eviction.Policy {
	case "lru", "lfu", "fifo", "ttl", "adaptive":
	default:
		return fmt.Errorf("eviction.policy must be one of: lru, lfu, fifo, ttl, adaptive")
	}

	// 验证压缩设置
	if c.Compression.Enable {
		if c.Compression.Threshold < 0 {
			return fmt.Errorf("compression.threshold must be non-negative")
		}
		switch c.Compression.Algorithm {
		case "gzip", "brotli":
		default:
			return fmt.Errorf("compression.algorithm must be one of: gzip, brotli")
		}
	}

	// 验证指标设置
	if c.Metrics.Enable {
		if c.Metrics.PrometheusPort <= 0 || c.Metrics.PrometheusPort > 65535 {
			return fmt.Errorf("metrics.prometheus_port must be between 1 and 65535")
		}
	}

	// 验证日志设置
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be one of: text, json")
	}
	switch c.Log.Output {
	case "stdout", "stderr", "file":
	default:
		return fmt.Errorf("log.output must be one of: stdout, stderr, file")
	}
	if c.Log.Output == "file" && c.Log.FilePath == "" {
		return fmt.Errorf("log.file_path must be specified when log.output is 'file'")
	}

	// 验证扩展设置
	if c.Extensions.HotReload.Enable && c.Extensions.HotReload.WatchInterval < time.Second {
		return fmt.Errorf("extensions.hot_reload.watch_interval must be at least 1 second")
	}

	return nil
}

// ToCacheConfig flattens the structured sections into a runtime cache
// configuration ready for cache.New.
//
// ToCacheConfig 将结构化部分展平为可供cache.New使用的运行时缓存配置。
//
// Returns:
//   - *cache.Config: The flattened runtime configuration
func (c *Config) ToCacheConfig() *cache.Config {
	rc := cache.NewDefaultConfig().
		WithName(c.Cache.Name).
		WithNamespace(c.Cache.Namespace).
		WithMaxEntries(c.Cache.MaxEntries).
		WithDefaultTTL(c.Cache.DefaultTTL).
		WithCleanupInterval(c.Cache.CleanupInterval).
		WithEvictionPolicy(c.Eviction.Policy)

	rc.CodecName = c.Storage.Codec
	if c.Compression.Enable {
		rc.EnableCompression = true
		rc.CompressionThreshold = c.Compression.Threshold
		rc.CompressionAlgorithm = c.Compression.Algorithm
	}
	if c.Storage.Persistence {
		rc.Persistence = true
		rc.PersistDir = c.Storage.PersistDir
		rc.PersistQuotaBytes = c.Storage.QuotaBytes
	}
	return rc
}
