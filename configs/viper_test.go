package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeConfigFile 将内容写入临时配置文件并返回其路径
func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

// TestNewViperConfig verifies loading and validation through Viper.
//
// TestNewViperConfig 验证通过Viper加载和验证。
func TestNewViperConfig(t *testing.T) {
	path := writeConfigFile(t, "config.yaml", `
cache:
  name: "viper-cache"
  namespace: "vp"
  max_entries: 200
  default_ttl: 30s
  cleanup_interval: 10s
eviction:
  policy: "lfu"
`)

	vc, err := NewViperConfig(path)
	if err != nil {
		t.Fatalf("NewViperConfig failed: %v", err)
	}
	defer vc.Close()

	config := vc.Get()
	if config.Cache.Name != "viper-cache" {
		t.Errorf("Expected Cache.Name 'viper-cache', got '%s'", config.Cache.Name)
	}
	if config.Cache.DefaultTTL != 30*time.Second {
		t.Errorf("Expected Cache.DefaultTTL 30s, got %v", config.Cache.DefaultTTL)
	}
	if config.Eviction.Policy != "lfu" {
		t.Errorf("Expected Eviction.Policy 'lfu', got '%s'", config.Eviction.Policy)
	}
}

// TestNewViperConfigRejectsInvalid verifies invalid documents fail at load time.
//
// TestNewViperConfigRejectsInvalid 验证无效文档在加载时失败。
func TestNewViperConfigRejectsInvalid(t *testing.T) {
	path := writeConfigFile(t, "config.yaml", `
cache:
  name: ""
`)
	if _, err := NewViperConfig(path); err == nil {
		t.Error("Expected error for invalid configuration")
	}

	if _, err := NewViperConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

// TestPollingReloadNotifiesSubscribers verifies the polling watcher picks up
// file changes, swaps in the new configuration, and notifies subscribers.
//
// TestPollingReloadNotifiesSubscribers 验证轮询监视器获取文件更改，
// 换入新配置并通知订阅者。
func TestPollingReloadNotifiesSubscribers(t *testing.T) {
	path := writeConfigFile(t, "config.yaml", `
cache:
  name: "reload-cache"
  namespace: "rl"
  max_entries: 100
`)

	vc, err := NewViperConfig(path)
	if err != nil {
		t.Fatalf("NewViperConfig failed: %v", err)
	}
	defer vc.Close()

	notified := make(chan *Config, 1)
	vc.Subscribe(func(c *Config) {
		select {
		case notified <- c:
		default:
		}
	})

	vc.WatchPolling(50 * time.Millisecond)

	updated := `
cache:
  name: "reload-cache"
  namespace: "rl"
  max_entries: 999
`
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("Failed to rewrite config file: %v", err)
	}

	select {
	case c := <-notified:
		if c.Cache.MaxEntries != 999 {
			t.Errorf("Expected reloaded MaxEntries 999, got %d", c.Cache.MaxEntries)
		}
		if vc.Get().Cache.MaxEntries != 999 {
			t.Errorf("Expected Get to return new config, got %d", vc.Get().Cache.MaxEntries)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for reload notification")
	}
}

// TestPollingReloadKeepsPreviousOnInvalid verifies an invalid rewrite is
// discarded and the previous configuration stays in effect.
//
// TestPollingReloadKeepsPreviousOnInvalid 验证无效的重写被丢弃，
// 先前的配置继续生效。
func TestPollingReloadKeepsPreviousOnInvalid(t *testing.T) {
	path := writeConfigFile(t, "config.yaml", `
cache:
  name: "sticky-cache"
  namespace: "st"
`)

	vc, err := NewViperConfig(path)
	if err != nil {
		t.Fatalf("NewViperConfig failed: %v", err)
	}
	defer vc.Close()

	vc.WatchPolling(50 * time.Millisecond)

	invalid := `
cache:
  name: "sticky-cache"
  namespace: "st"
  default_ttl: -5s
`
	if err := os.WriteFile(path, []byte(invalid), 0o644); err != nil {
		t.Fatalf("Failed to rewrite config file: %v", err)
	}

	time.Sleep(300 * time.Millisecond)
	if got := vc.Get().Cache.Name; got != "sticky-cache" {
		t.Errorf("Expected previous config to survive, got name '%s'", got)
	}
	if got := vc.Get().Cache.DefaultTTL; got <= 0 {
		t.Errorf("Expected previous TTL to survive, got %v", got)
	}
}
