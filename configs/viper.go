// Viper-based configuration management with hot reloading.
// 基于Viper的配置管理，支持热重载。
package configs

import (
	"fmt"
	"log"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// jsonTagNames 让Viper按json标签解码，与文件加载器保持同一套键名
func jsonTagNames(dc *mapstructure.DecoderConfig) {
	dc.TagName = "json"
}

// ViperConfig wraps a Config with Viper functionality for hot reloading.
// It provides thread-safe access to the current configuration and notifies
// subscribers when the underlying configuration file changes. A change that
// fails to parse or validate is logged and discarded; the previous
// configuration stays in effect.
//
// ViperConfig 使用Viper功能包装Config以支持热重载。
// 它提供对当前配置的线程安全访问，并在底层配置文件更改时通知订阅者。
// 解析或验证失败的更改会被记录并丢弃；先前的配置继续生效。
type ViperConfig struct {
	mu          sync.RWMutex
	current     *Config
	viper       *viper.Viper
	configFile  string
	subscribers []func(*Config)
	stopChan    chan struct{}
	stopOnce    sync.Once
}

// NewViperConfig creates a new ViperConfig.
// It loads configuration from the specified file and validates it.
//
// NewViperConfig 创建一个新的ViperConfig。
// 它从指定的文件加载配置并验证它。
//
// Parameters:
//   - configFile: Path to the configuration file
//
// Returns:
//   - *ViperConfig: A new ViperConfig instance
//   - error: An error if loading or validation fails
func NewViperConfig(configFile string) (*ViperConfig, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType(strings.TrimPrefix(filepath.Ext(configFile), "."))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := v.Unmarshal(config, jsonTagNames); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &ViperConfig{
		current:    config,
		viper:      v,
		configFile: configFile,
		stopChan:   make(chan struct{}),
	}, nil
}

// EnableHotReload enables fsnotify-based hot reloading of the configuration
// file. When the file changes, the configuration is reparsed, validated and
// swapped in, and all subscribers are notified.
//
// EnableHotReload 启用基于fsnotify的配置文件热重载。
// 文件更改时，配置会被重新解析、验证并换入，并通知所有订阅者。
func (vc *ViperConfig) EnableHotReload() {
	vc.viper.WatchConfig()
	vc.viper.OnConfigChange(func(e fsnotify.Event) {
		log.Printf("tiercache: config file changed: %s", e.Name)
		vc.reload()
	})
}

// WatchPolling starts a polling watcher as an alternative to fsnotify, for
// environments where file system notifications are unreliable. Stop it with
// Close.
//
// WatchPolling 启动轮询监视器作为fsnotify的替代方案，
// 用于文件系统通知不可靠的环境。通过Close停止。
//
// Parameters:
//   - interval: How often to re-read the configuration file
func (vc *ViperConfig) WatchPolling(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := vc.viper.ReadInConfig(); err != nil {
					log.Printf("tiercache: failed to read config file: %v", err)
					continue
				}
				vc.reload()
			case <-vc.stopChan:
				return
			}
		}
	}()
}

// reload 重新解析当前Viper状态；无变化或无效的配置不换入
func (vc *ViperConfig) reload() {
	newConfig := DefaultConfig()
	if err := vc.viper.Unmarshal(newConfig, jsonTagNames); err != nil {
		log.Printf("tiercache: failed to unmarshal config: %v", err)
		return
	}
	if err := newConfig.Validate(); err != nil {
		log.Printf("tiercache: invalid configuration, keeping previous: %v", err)
		return
	}

	vc.mu.Lock()
	if reflect.DeepEqual(vc.current, newConfig) {
		vc.mu.Unlock()
		return
	}
	vc.current = newConfig
	subscribers := make([]func(*Config), len(vc.subscribers))
	copy(subscribers, vc.subscribers)
	vc.mu.Unlock()

	for _, subscriber := range subscribers {
		subscriber(newConfig)
	}
}

// Subscribe adds a subscriber that will be notified when the configuration
// changes. The subscriber function is called with the new configuration.
//
// Subscribe 添加一个在配置更改时将被通知的订阅者。
// 订阅者函数将以新配置作为其参数被调用。
//
// Parameters:
//   - subscriber: A function to call when the configuration changes
func (vc *ViperConfig) Subscribe(subscriber func(*Config)) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.subscribers = append(vc.subscribers, subscriber)
}

// Get returns the current configuration.
// This method is thread-safe and can be called concurrently.
//
// Get 返回当前配置。
// 此方法是线程安全的，可以并发调用。
//
// Returns:
//   - *Config: The current configuration
func (vc *ViperConfig) Get() *Config {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.current
}

// Close stops the polling watcher if one is running. It is idempotent.
//
// Close 停止轮询监视器（如果正在运行）。它是幂等的。
func (vc *ViperConfig) Close() {
	vc.stopOnce.Do(func() {
		close(vc.stopChan)
	})
}

// LoadViperConfig loads a configuration from a file using Viper and
// optionally enables fsnotify-based hot reloading.
//
// LoadViperConfig 使用Viper从文件加载配置，并可选地启用基于fsnotify的热重载。
//
// Parameters:
//   - configFile: Path to the configuration file
//   - enableHotReload: Whether to enable hot reloading
//
// Returns:
//   - *ViperConfig: A new ViperConfig instance
//   - error: An error if loading fails
func LoadViperConfig(configFile string, enableHotReload bool) (*ViperConfig, error) {
	vc, err := NewViperConfig(configFile)
	if err != nil {
		return nil, err
	}
	if enableHotReload {
		vc.EnableHotReload()
	}
	return vc, nil
}
