package cache

import (
	"context"
	"reflect"
	"regexp"
	"sync"
	"time"

	"github.com/yourusername/tiercache/internal/keygen"
	"github.com/yourusername/tiercache/pkg/errors"
)

// MockCache is a minimal ICache for consumer tests. It stores values
// as-is without serialization, expiry or eviction, and counts calls so
// tests can assert how the cache was used.
//
// MockCache 是供消费者测试使用的最小ICache。
// 它按原样存储值，不进行序列化、过期或淘汰，并对调用计数，
// 以便测试断言缓存的使用方式。
type MockCache struct {
	mu     sync.Mutex
	items  map[string]any
	closed bool

	// GetCalls、SetCalls等记录各方法的调用次数
	GetCalls    int
	SetCalls    int
	DeleteCalls int
	ClearCalls  int

	// FailGets 为true时所有Get表现为未命中
	FailGets bool
}

var _ ICache = (*MockCache)(nil)

// NewMockCache creates an empty mock.
//
// NewMockCache 创建一个空的模拟缓存。
func NewMockCache() *MockCache {
	return &MockCache{items: make(map[string]any)}
}

// Get 按原样取回存储的值；out必须是指向存储类型的指针
func (m *MockCache) Get(ctx context.Context, identifier string, params map[string]any, out any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false, errors.ErrClosed
	}
	m.GetCalls++
	if m.FailGets {
		return false, nil
	}

	value, found := m.items[keygen.Generate("mock", identifier, params)]
	if !found {
		return false, nil
	}
	assign(out, value)
	return true, nil
}

// Set 按原样存储值，忽略TTL
func (m *MockCache) Set(ctx context.Context, identifier string, params map[string]any, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.ErrClosed
	}
	if identifier == "" {
		return errors.ErrKeyEmpty
	}
	m.SetCalls++
	m.items[keygen.Generate("mock", identifier, params)] = value
	return nil
}

// Delete 删除值
func (m *MockCache) Delete(ctx context.Context, identifier string, params map[string]any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false, errors.ErrClosed
	}
	m.DeleteCalls++
	key := keygen.Generate("mock", identifier, params)
	_, found := m.items[key]
	delete(m.items, key)
	return found, nil
}

// InvalidatePattern 删除键匹配正则表达式的值
func (m *MockCache) InvalidatePattern(ctx context.Context, pattern string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, errors.ErrClosed
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, err
	}
	removed := 0
	for key := range m.items {
		if re.MatchString(key) {
			delete(m.items, key)
			removed++
		}
	}
	return removed, nil
}

// Clear 清空所有值
func (m *MockCache) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.ErrClosed
	}
	m.ClearCalls++
	m.items = make(map[string]any)
	return nil
}

// Stats 返回仅包含条目数的统计信息
func (m *MockCache) Stats(ctx context.Context) (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, errors.ErrClosed
	}
	return &Stats{EntryCount: int64(len(m.items))}, nil
}

// Close 标记缓存为已关闭
func (m *MockCache) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Len 返回当前条目数，供测试断言使用
func (m *MockCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// assign 通过反射将存储的值写入out指向的位置
func assign(out, value any) {
	ov := reflect.ValueOf(out)
	if ov.Kind() != reflect.Ptr || ov.IsNil() {
		return
	}
	vv := reflect.ValueOf(value)
	if vv.IsValid() && vv.Type().AssignableTo(ov.Elem().Type()) {
		ov.Elem().Set(vv)
	}
}
