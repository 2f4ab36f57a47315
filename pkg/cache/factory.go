package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/tiercache/pkg/errors"
	"github.com/yourusername/tiercache/pkg/strategy"
)

// New creates a cache manager from the given configuration.
// A nil configuration uses the defaults. The configuration is validated
// before any resource is allocated.
//
// New 根据给定配置创建缓存管理器。
// nil配置使用默认值。配置在分配任何资源之前进行验证。
//
// Parameters:
//   - config: The cache configuration, may be nil
//
// Returns:
//   - *Manager: A running cache manager
//   - error: errors.ErrInvalidConfig wrapped with the offending field
func New(config *Config) (*Manager, error) {
	return newManager(config)
}

// NewWithOptions creates a cache manager from the defaults plus options.
//
// NewWithOptions 根据默认值加选项创建缓存管理器。
//
// Parameters:
//   - name: The instance name
//   - opts: Options applied on top of the defaults
//
// Returns:
//   - *Manager: A running cache manager
//   - error: errors.ErrInvalidConfig wrapped with the offending field
func NewWithOptions(name string, opts ...Option) (*Manager, error) {
	config := NewDefaultConfig().WithName(name)
	for _, opt := range opts {
		opt(config)
	}
	return newManager(config)
}

// NewFromJSON creates a cache manager from a JSON configuration document.
// Missing fields keep their default values.
//
// NewFromJSON 从JSON配置文档创建缓存管理器。
// 缺失的字段保持默认值。
func NewFromJSON(r io.Reader) (*Manager, error) {
	config := NewDefaultConfig()
	if err := json.NewDecoder(r).Decode(config); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}
	return newManager(config)
}

// NewFromYAML creates a cache manager from a YAML configuration document.
// Missing fields keep their default values.
//
// NewFromYAML 从YAML配置文档创建缓存管理器。
// 缺失的字段保持默认值。
func NewFromYAML(r io.Reader) (*Manager, error) {
	config := NewDefaultConfig()
	if err := yaml.NewDecoder(r).Decode(config); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}
	return newManager(config)
}

// NewFromFile creates a cache manager from a configuration file.
// The format is chosen by extension: .json, .yaml or .yml.
//
// NewFromFile 从配置文件创建缓存管理器。
// 格式由扩展名决定：.json、.yaml或.yml。
func NewFromFile(path string) (*Manager, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewFromJSON(f)
	case ".yaml", ".yml":
		return NewFromYAML(f)
	default:
		return nil, fmt.Errorf("%w: unsupported config format: %s", errors.ErrInvalidConfig, path)
	}
}

// NewForCategory creates a cache manager tuned for one of the data
// categories in the strategy table. The profile fixes TTL, compression and
// tier placement; the base configuration supplies everything else
// (name, namespace, limits, persisted directory).
//
// Placements that involve the persisted tier require base.PersistDir.
//
// NewForCategory 为策略表中的一个数据类别创建调优的缓存管理器。
// 配置元组固定TTL、压缩和层级放置；基础配置提供其余一切
// （名称、命名空间、上限、持久化目录）。
//
// 涉及持久化层的放置需要base.PersistDir。
//
// Parameters:
//   - category: One of the strategy.Category constants
//   - base: The base configuration, may be nil
//
// Returns:
//   - *Manager: A running cache manager
//   - error: errors.ErrInvalidConfig for unknown categories or bad base config
func NewForCategory(category strategy.Category, base *Config) (*Manager, error) {
	profile, ok := strategy.For(category)
	if !ok {
		return nil, fmt.Errorf("%w: unknown category %q", errors.ErrInvalidConfig, category)
	}

	config := base
	if config == nil {
		config = NewDefaultConfig()
	}
	config.Name = config.Name + "-" + string(category)
	config.DefaultTTL = profile.TTL
	config.EnableCompression = profile.Compression

	switch profile.Placement {
	case strategy.WriteThrough, strategy.StorageBacked:
		config.Persistence = true
	case strategy.MemoryOnly, strategy.MemoryFirst:
		config.Persistence = false
	}

	return newManager(config)
}
