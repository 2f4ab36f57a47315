package cache

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yourusername/tiercache/internal/compress"
	"github.com/yourusername/tiercache/internal/eviction"
	"github.com/yourusername/tiercache/internal/keygen"
	"github.com/yourusername/tiercache/internal/metrics"
	"github.com/yourusername/tiercache/internal/storage"
	"github.com/yourusername/tiercache/internal/ttl"
	"github.com/yourusername/tiercache/pkg/codec"
	"github.com/yourusername/tiercache/pkg/errors"
)

// Manager is the concrete cache implementation behind ICache. It owns one
// storage backend (memory, or memory over a persisted tier), one eviction
// strategy, one metrics collector, and one background sweeper.
//
// All failures inside the data path degrade: a read failure is a miss, a
// write failure is a dropped write. Callers only ever see ErrClosed,
// ErrKeyEmpty, serialization errors on Set, and pattern errors on
// InvalidatePattern.
//
// Manager 是ICache背后的具体缓存实现。它拥有一个存储后端
// （内存，或内存叠加持久化层）、一个淘汰策略、一个指标收集器
// 和一个后台清扫器。
//
// 数据路径内的所有故障都会降级：读取故障是未命中，写入故障是丢弃的写入。
// 调用方只会看到ErrClosed、ErrKeyEmpty、Set时的序列化错误
// 以及InvalidatePattern时的模式错误。
type Manager struct {
	config     *Config
	backend    storage.Backend
	strategy   eviction.Strategy
	codec      codec.Codec
	compressor compress.Compressor
	collector  *metrics.Collector
	sweeper    *ttl.Sweeper
	now        func() time.Time

	closed    atomic.Bool
	closeOnce sync.Once

	// evictMu 序列化容量检查，避免并发写入重复淘汰
	evictMu sync.Mutex
}

// 编译期检查Manager实现ICache
var _ ICache = (*Manager)(nil)

// newManager 验证配置并装配后端、策略、编解码器、压缩器和清扫器
func newManager(config *Config) (*Manager, error) {
	if config == nil {
		config = NewDefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	now := config.Clock
	if now == nil {
		now = time.Now
	}

	strat, err := eviction.New(config.EvictionPolicy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}

	cd := config.Codec
	if cd == nil {
		cd, err = codec.GetCodec(config.CodecName)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
		}
	}

	var compressor compress.Compressor
	if config.EnableCompression {
		compressor = config.Compressor
		if compressor == nil {
			compressor, err = compress.New(config.CompressionAlgorithm)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
			}
		}
	}

	var backend storage.Backend
	memory := storage.NewMemoryBackend(&storage.MemoryOptions{Now: now})
	if config.Persistence {
		persisted, err := storage.NewFileBackend(&storage.FileOptions{
			Fs:         config.Filesystem,
			Dir:        config.PersistDir,
			Prefix:     config.Namespace,
			QuotaBytes: config.PersistQuotaBytes,
			Now:        now,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: persist dir unusable: %v", errors.ErrInvalidConfig, err)
		}
		backend = storage.NewTieredBackend(memory, persisted)
	} else {
		backend = memory
	}

	collector := metrics.NewCollector()
	sweeper := ttl.NewSweeper(backend, &ttl.SweeperConfig{
		Interval: config.CleanupInterval,
		Now:      now,
		OnExpired: func(string) {
			collector.RecordExpiration()
		},
	})

	return &Manager{
		config:     config,
		backend:    backend,
		strategy:   strat,
		codec:      cd,
		compressor: compressor,
		collector:  collector,
		sweeper:    sweeper,
		now:        now,
	}, nil
}

// Get 检索并反序列化值；不存在、过期或损坏的条目一律视为未命中
func (m *Manager) Get(ctx context.Context, identifier string, params map[string]any, out any) (bool, error) {
	if m.closed.Load() {
		return false, errors.ErrClosed
	}

	start := time.Now()
	key := keygen.Generate(m.config.Namespace, identifier, params)

	entry, err := m.backend.Get(ctx, key)
	if err != nil || entry == nil {
		m.recordMiss(start)
		return false, nil
	}

	// 惰性过期：读取路径上发现的过期条目当场清除
	if entry.IsExpired(m.now()) {
		if ok, err := m.backend.Delete(ctx, key); err == nil && ok {
			m.collector.RecordExpiration()
		}
		m.recordMiss(start)
		return false, nil
	}

	data := entry.Data
	if entry.Compressed {
		if m.compressor == nil {
			m.discard(ctx, key)
			m.recordMiss(start)
			return false, nil
		}
		data, err = m.compressor.Decompress(data)
		if err != nil {
			m.discard(ctx, key)
			m.recordMiss(start)
			return false, nil
		}
	}

	if err := m.codec.Unmarshal(data, out); err != nil {
		m.discard(ctx, key)
		m.recordMiss(start)
		return false, nil
	}

	m.recordHit(start)
	return true, nil
}

// Set 序列化、可选压缩并存储值；存储故障静默降级为无操作
func (m *Manager) Set(ctx context.Context, identifier string, params map[string]any, value any, ttl time.Duration) error {
	if m.closed.Load() {
		return errors.ErrClosed
	}
	if identifier == "" {
		return errors.ErrKeyEmpty
	}

	key := keygen.Generate(m.config.Namespace, identifier, params)

	data, err := m.codec.Marshal(value)
	if err != nil {
		return errors.NewKeyError(key, fmt.Errorf("%w: %v", errors.ErrSerializationFailed, err))
	}

	compressed := false
	if m.compressor != nil && len(data) > m.config.CompressionThreshold {
		// 压缩失败或无增益时回退到未压缩存储
		if cdata, cerr := m.compressor.Compress(data); cerr == nil && len(cdata) < len(data) {
			data = cdata
			compressed = true
		}
	}

	m.ensureCapacity(ctx, key)

	now := m.now()
	if ttl == 0 {
		ttl = m.config.DefaultTTL
	}
	entry := &storage.Entry{
		Key:            key,
		Data:           data,
		CreatedAt:      now,
		TTL:            ttl,
		LastAccessedAt: now,
		Size:           int64(len(data)),
		Compressed:     compressed,
	}

	if err := m.backend.Set(ctx, entry); err != nil {
		// 存储故障不暴露给调用方
		return nil
	}
	m.collector.RecordSet()
	return nil
}

// Delete 删除条目；删除不存在的键返回false而非错误
func (m *Manager) Delete(ctx context.Context, identifier string, params map[string]any) (bool, error) {
	if m.closed.Load() {
		return false, errors.ErrClosed
	}

	key := keygen.Generate(m.config.Namespace, identifier, params)
	removed, err := m.backend.Delete(ctx, key)
	if err != nil {
		return false, nil
	}
	if removed {
		m.collector.RecordDelete()
	}
	return removed, nil
}

// InvalidatePattern 删除完全限定键匹配正则表达式的所有条目
func (m *Manager) InvalidatePattern(ctx context.Context, pattern string) (int, error) {
	if m.closed.Load() {
		return 0, errors.ErrClosed
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid pattern %q: %v", errors.ErrInvalidConfig, pattern, err)
	}

	keys, err := m.backend.Keys(ctx)
	if err != nil {
		return 0, nil
	}

	removed := 0
	for _, key := range keys {
		if !re.MatchString(key) {
			continue
		}
		if ok, err := m.backend.Delete(ctx, key); err == nil && ok {
			removed++
			m.collector.RecordDelete()
		}
	}
	return removed, nil
}

// Clear 清空后端并重置统计信息
func (m *Manager) Clear(ctx context.Context) error {
	if m.closed.Load() {
		return errors.ErrClosed
	}

	// 存储故障降级为无操作；统计信息无论如何重置
	_ = m.backend.Clear(ctx)
	m.collector.Reset()
	return nil
}

// Stats 返回当前统计信息的快照
func (m *Manager) Stats(ctx context.Context) (*Stats, error) {
	if m.closed.Load() {
		return nil, errors.ErrClosed
	}

	count, _ := m.backend.Len(ctx)
	size, _ := m.backend.Size(ctx)
	s := m.collector.Snapshot()

	policy := m.strategy.Name()
	if adaptive, ok := m.strategy.(*eviction.Adaptive); ok {
		policy = adaptive.Active()
	}

	return &Stats{
		EntryCount:       int64(count),
		SizeBytes:        size,
		Hits:             s.Hits,
		Misses:           s.Misses,
		Evictions:        s.Evictions,
		Expirations:      s.Expirations,
		Sets:             s.Sets,
		Deletes:          s.Deletes,
		HitRate:          s.HitRate,
		AvgAccessLatency: s.AvgAccessLatency,
		EvictionPolicy:   policy,
	}, nil
}

// Close 停止清扫器并释放后端；幂等
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		m.closed.Store(true)
		m.sweeper.Close()
		_ = m.backend.Close()
	})
	return nil
}

// Name 返回实例名称
func (m *Manager) Name() string {
	return m.config.Name
}

// MetricsCollector returns a prometheus.Collector view of this instance's
// counters, labeled with the instance name. Register it on any registry;
// scraping reads atomic snapshots and never touches the data path.
//
// MetricsCollector 返回此实例计数器的prometheus.Collector视图，
// 以实例名称为标签。可注册到任何registry；
// 抓取读取原子快照，绝不触及数据路径。
func (m *Manager) MetricsCollector() *metrics.Exporter {
	return metrics.NewExporter(m.collector, m.config.Name)
}

// Sweep 立即运行一次过期清扫，返回清除的条目数；清扫器之外的手动入口
func (m *Manager) Sweep(ctx context.Context) int {
	if m.closed.Load() {
		return 0
	}
	return m.sweeper.Sweep(ctx)
}

// ensureCapacity 在写入前检查条目数上限，必要时淘汰最大条目数的10%（至少1个）。
// incoming键已存在时写入是替换，不增加条目数，跳过淘汰。
func (m *Manager) ensureCapacity(ctx context.Context, incoming string) {
	maxEntries := m.config.MaxEntries
	if maxEntries <= 0 {
		return
	}

	m.evictMu.Lock()
	defer m.evictMu.Unlock()

	count, err := m.backend.Len(ctx)
	if err != nil || count < maxEntries {
		return
	}

	entries, err := m.backend.Items(ctx)
	if err != nil {
		return
	}
	if _, exists := entries[incoming]; exists {
		return
	}

	target := maxEntries / 10
	if target < 1 {
		target = 1
	}

	victims := m.strategy.SelectVictims(entries, target, m.now())
	removed := 0
	for _, key := range victims {
		if ok, err := m.backend.Delete(ctx, key); err == nil && ok {
			removed++
		}
	}
	m.collector.RecordEvictions(removed)
}

// discard 清除无法读回的损坏条目
func (m *Manager) discard(ctx context.Context, key string) {
	_, _ = m.backend.Delete(ctx, key)
}

// recordHit 记录命中及延迟，并将结果报告给自适应策略
func (m *Manager) recordHit(start time.Time) {
	m.collector.RecordHit(time.Since(start))
	m.observe(true)
}

// recordMiss 记录未命中及延迟，并将结果报告给自适应策略
func (m *Manager) recordMiss(start time.Time) {
	m.collector.RecordMiss(time.Since(start))
	m.observe(false)
}

// observe 将查找结果送入实现Observer的策略
func (m *Manager) observe(hit bool) {
	if o, ok := m.strategy.(eviction.Observer); ok {
		o.Observe(hit)
	}
}
