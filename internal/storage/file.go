package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

const fileExt = ".entry"

// FileBackend persists each entry as one serialized file keyed by
// "{prefix}:{key}" inside a directory with a finite byte quota. The directory
// is a shared, system-wide resource: several backends with distinct prefixes
// may point at the same directory, so every write must degrade gracefully
// under quota pressure instead of assuming exclusive capacity.
//
// On a quota-exceeded write the backend first purges its expired entries and
// retries once; if the write still does not fit it is silently dropped.
// Corrupt entries read back as misses and are removed.
//
// FileBackend 将每个条目作为一个序列化文件持久化，以"{prefix}:{key}"为键，
// 存放在具有有限字节配额的目录中。该目录是共享的系统级资源：
// 多个具有不同前缀的后端可能指向同一目录，因此每次写入都必须在配额压力下
// 优雅降级，而不是假定独占容量。
//
// 配额超限的写入首先清除其过期条目并重试一次；如果写入仍然不适合则静默丢弃。
// 损坏的条目读取时视为未命中并被删除。
type FileBackend struct {
	mu     sync.Mutex
	fs     afero.Fs
	dir    string
	prefix string
	quota  int64
	now    func() time.Time
}

// FileOptions configures a FileBackend.
//
// FileOptions 配置FileBackend。
type FileOptions struct {
	// Fs 是底层文件系统；为nil时使用操作系统文件系统
	Fs afero.Fs

	// Dir 是条目文件所在的目录
	Dir string

	// Prefix 是此后端的命名空间前缀
	Prefix string

	// QuotaBytes 是目录的总字节预算；0表示无限制
	QuotaBytes int64

	// Now 覆盖时钟来源，测试中用于模拟时间
	Now func() time.Time
}

// NewFileBackend creates a persisted backend rooted at opts.Dir.
//
// NewFileBackend 创建以opts.Dir为根的持久化后端。
//
// Parameters:
//   - opts: Backend options; Dir and Prefix are required
//
// Returns:
//   - *FileBackend: A new persisted backend
//   - error: An error if the directory cannot be created
func NewFileBackend(opts *FileOptions) (*FileBackend, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if err := fs.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, err
	}
	return &FileBackend{
		fs:     fs,
		dir:    opts.Dir,
		prefix: opts.Prefix,
		quota:  opts.QuotaBytes,
		now:    now,
	}, nil
}

// fileName 将完全限定键编码为文件名
func (f *FileBackend) fileName(key string) string {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(f.prefix + ":" + key))
	return filepath.Join(f.dir, encoded+fileExt)
}

// decodeName 从文件名恢复完全限定键；不属于本前缀的文件返回("", false)
func (f *FileBackend) decodeName(name string) (string, bool) {
	if !strings.HasSuffix(name, fileExt) {
		return "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSuffix(name, fileExt))
	if err != nil {
		return "", false
	}
	full := string(raw)
	if !strings.HasPrefix(full, f.prefix+":") {
		return "", false
	}
	return strings.TrimPrefix(full, f.prefix+":"), true
}

// Get 读取并反序列化条目；损坏的条目视为未命中并被删除
func (f *FileBackend) Get(ctx context.Context, key string) (*Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := f.fileName(key)
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// 损坏条目：删除并按未命中处理
		_ = f.fs.Remove(path)
		return nil, nil
	}

	entry.AccessCount++
	entry.LastAccessedAt = f.now()

	// 访问字段回写是尽力而为的；失败不影响本次读取
	if updated, err := json.Marshal(&entry); err == nil {
		_ = afero.WriteFile(f.fs, path, updated, 0o644)
	}

	return &entry, nil
}

// Set 序列化并写入条目，在配额压力下清理过期条目并重试一次
func (f *FileBackend) Set(ctx context.Context, entry *Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := f.fileName(entry.Key)
	if !f.fits(path, int64(len(data))) {
		f.purgeExpiredLocked()
		if !f.fits(path, int64(len(data))) {
			// 清理后仍超配额：静默丢弃本次写入
			return nil
		}
	}

	return afero.WriteFile(f.fs, path, data, 0o644)
}

// fits 检查写入后目录用量是否仍在配额内
func (f *FileBackend) fits(path string, incoming int64) bool {
	if f.quota <= 0 {
		return true
	}
	used := f.dirUsageLocked()
	if info, err := f.fs.Stat(path); err == nil {
		used -= info.Size()
	}
	return used+incoming <= f.quota
}

// dirUsageLocked 统计目录中所有文件的字节数，配额跨命名空间共享
func (f *FileBackend) dirUsageLocked() int64 {
	var used int64
	infos, err := afero.ReadDir(f.fs, f.dir)
	if err != nil {
		return 0
	}
	for _, info := range infos {
		if !info.IsDir() {
			used += info.Size()
		}
	}
	return used
}

// purgeExpiredLocked 删除本前缀下所有已过期的条目
func (f *FileBackend) purgeExpiredLocked() {
	now := f.now()
	infos, err := afero.ReadDir(f.fs, f.dir)
	if err != nil {
		return
	}
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		if _, ok := f.decodeName(info.Name()); !ok {
			continue
		}
		path := filepath.Join(f.dir, info.Name())
		data, err := afero.ReadFile(f.fs, path)
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			// 顺带清除损坏文件
			_ = f.fs.Remove(path)
			continue
		}
		if entry.IsExpired(now) {
			_ = f.fs.Remove(path)
		}
	}
}

// Delete 删除条目
func (f *FileBackend) Delete(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := f.fileName(key)
	if _, err := f.fs.Stat(path); err != nil {
		return false, nil
	}
	if err := f.fs.Remove(path); err != nil {
		return false, err
	}
	return true, nil
}

// Clear 删除本前缀下的所有条目
func (f *FileBackend) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	infos, err := afero.ReadDir(f.fs, f.dir)
	if err != nil {
		return err
	}
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		if _, ok := f.decodeName(info.Name()); ok {
			_ = f.fs.Remove(filepath.Join(f.dir, info.Name()))
		}
	}
	return nil
}

// Keys 返回本前缀下的所有键
func (f *FileBackend) Keys(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	infos, err := afero.ReadDir(f.fs, f.dir)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		if key, ok := f.decodeName(info.Name()); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Len 返回本前缀下的条目数量
func (f *FileBackend) Len(ctx context.Context) (int, error) {
	keys, err := f.Keys(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Size 返回本前缀下条目负载的总字节数
func (f *FileBackend) Size(ctx context.Context) (int64, error) {
	items, err := f.Items(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, entry := range items {
		total += entry.Size
	}
	return total, nil
}

// Items 返回本前缀下所有条目的快照，不更新访问字段
func (f *FileBackend) Items(ctx context.Context) (map[string]*Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	infos, err := afero.ReadDir(f.fs, f.dir)
	if err != nil {
		return nil, err
	}
	snapshot := make(map[string]*Entry, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		key, ok := f.decodeName(info.Name())
		if !ok {
			continue
		}
		data, err := afero.ReadFile(f.fs, filepath.Join(f.dir, info.Name()))
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		snapshot[key] = &entry
	}
	return snapshot, nil
}

// Close 释放资源；持久化条目保留在磁盘上
func (f *FileBackend) Close() error {
	return nil
}
