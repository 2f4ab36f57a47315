package cache

import (
	"time"

	"github.com/spf13/afero"

	"github.com/yourusername/tiercache/internal/compress"
	"github.com/yourusername/tiercache/pkg/codec"
)

// Option is a function that modifies a Config.
// Options are applied by NewWithOptions on top of the defaults.
//
// Option 是修改Config的函数。
// 选项由NewWithOptions在默认值之上应用。
type Option func(*Config)

// WithNamespaceOption 设置键命名空间
func WithNamespaceOption(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithMaxEntriesOption 设置条目上限
func WithMaxEntriesOption(n int) Option {
	return func(c *Config) {
		c.MaxEntries = n
	}
}

// WithDefaultTTLOption 设置默认TTL
func WithDefaultTTLOption(ttl time.Duration) Option {
	return func(c *Config) {
		c.DefaultTTL = ttl
	}
}

// WithEvictionPolicyOption 设置淘汰策略
func WithEvictionPolicyOption(policy string) Option {
	return func(c *Config) {
		c.EvictionPolicy = policy
	}
}

// WithCompressionOption 启用超过阈值的压缩
func WithCompressionOption(threshold int, algorithm string) Option {
	return func(c *Config) {
		c.EnableCompression = true
		c.CompressionThreshold = threshold
		if algorithm != "" {
			c.CompressionAlgorithm = algorithm
		}
	}
}

// WithPersistenceOption 启用持久化层
func WithPersistenceOption(dir string, quotaBytes int64) Option {
	return func(c *Config) {
		c.Persistence = true
		c.PersistDir = dir
		c.PersistQuotaBytes = quotaBytes
	}
}

// WithCleanupIntervalOption 设置清扫周期
func WithCleanupIntervalOption(interval time.Duration) Option {
	return func(c *Config) {
		c.CleanupInterval = interval
	}
}

// WithCodecOption 设置具体编解码器
func WithCodecOption(cd codec.Codec) Option {
	return func(c *Config) {
		c.Codec = cd
	}
}

// WithCompressorOption 设置具体压缩器，主要供测试注入失败压缩器使用
func WithCompressorOption(cp compress.Compressor) Option {
	return func(c *Config) {
		c.Compressor = cp
	}
}

// WithFilesystemOption 覆盖持久化层的文件系统，供测试使用
func WithFilesystemOption(fs afero.Fs) Option {
	return func(c *Config) {
		c.Filesystem = fs
	}
}

// WithClockOption 覆盖时间来源，供测试模拟过期使用
func WithClockOption(now func() time.Time) Option {
	return func(c *Config) {
		c.Clock = now
	}
}
