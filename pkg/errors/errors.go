// Package errors provides standardized error types for the cache.
// It defines common error types, error wrapping, and helper functions
// for error checking and handling in the cache implementation.
//
// Package errors 提供缓存的标准化错误类型。
// 它定义了常见错误类型、错误包装和用于缓存实现中错误检查和处理的辅助函数。
package errors

import (
	"errors"
	"fmt"
)

// Standard errors that can be returned by the cache.
// These provide consistent error types across the cache implementation.
//
// 缓存可能返回的标准错误。
// 这些提供了缓存实现中一致的错误类型。
var (
	// ErrNotFound is returned when a key is not found in the cache.
	// 当在缓存中找不到键时返回ErrNotFound。
	ErrNotFound = errors.New("tiercache: key not found")

	// ErrKeyEmpty is returned when an empty identifier is provided.
	// 当提供空标识符时返回ErrKeyEmpty。
	ErrKeyEmpty = errors.New("tiercache: key is empty")

	// ErrInvalidConfig is returned when a configuration fails validation.
	// This is the only error class surfaced to callers at construction time.
	//
	// 当配置验证失败时返回ErrInvalidConfig。
	// 这是唯一在构造时向调用者暴露的错误类别。
	ErrInvalidConfig = errors.New("tiercache: invalid configuration")

	// ErrSerializationFailed is returned when value serialization fails.
	// 当值序列化失败时返回ErrSerializationFailed。
	ErrSerializationFailed = errors.New("tiercache: serialization failed")

	// ErrDeserializationFailed is returned when value deserialization fails.
	// Corrupt entries are discarded and treated as cache misses.
	//
	// 当值反序列化失败时返回ErrDeserializationFailed。
	// 损坏的条目会被丢弃并视为缓存未命中。
	ErrDeserializationFailed = errors.New("tiercache: deserialization failed")

	// ErrQuotaExceeded is returned internally when the persisted store is out
	// of quota. It never crosses the cache manager boundary.
	//
	// 当持久化存储配额不足时在内部返回ErrQuotaExceeded。
	// 它不会越过缓存管理器的边界。
	ErrQuotaExceeded = errors.New("tiercache: storage quota exceeded")

	// ErrCompressionFailed is returned when a value cannot be compressed.
	// The manager falls back to storing the value uncompressed.
	//
	// 当值无法压缩时返回ErrCompressionFailed。
	// 管理器会回退到以未压缩形式存储该值。
	ErrCompressionFailed = errors.New("tiercache: compression failed")

	// ErrClosed is returned when an operation is performed on a closed cache.
	// 当对已关闭的缓存执行操作时返回ErrClosed。
	ErrClosed = errors.New("tiercache: cache is closed")

	// ErrUnknownStrategy is returned when an eviction strategy name is not registered.
	// 当淘汰策略名称未注册时返回ErrUnknownStrategy。
	ErrUnknownStrategy = errors.New("tiercache: unknown eviction strategy")
)

// KeyError represents an error related to a specific key.
// It wraps an underlying error with the key that caused the error.
//
// KeyError 表示与特定键相关的错误。
// 它用导致错误的键包装底层错误。
type KeyError struct {
	Key string // The key that caused the error / 导致错误的键
	Err error  // The underlying error / 底层错误
}

// Error returns the error message.
//
// Error 返回错误消息。
func (e *KeyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Key)
}

// Unwrap returns the underlying error.
// This allows errors.Is and errors.As to work with wrapped errors.
//
// Unwrap 返回底层错误。
// 这允许errors.Is和errors.As与包装的错误一起工作。
func (e *KeyError) Unwrap() error {
	return e.Err
}

// NewKeyError creates a new KeyError associating a key with an error.
//
// NewKeyError 创建一个新的KeyError，将键与错误关联起来。
//
// Parameters:
//   - key: The key that caused the error
//   - err: The underlying error
//
// Returns:
//   - *KeyError: A new key error instance
func NewKeyError(key string, err error) *KeyError {
	return &KeyError{Key: key, Err: err}
}

// IsNotFound returns true if the error indicates that a key was not found.
//
// IsNotFound 如果错误表示未找到键，则返回true。
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidConfig returns true if the error indicates an invalid configuration.
//
// IsInvalidConfig 如果错误表示无效配置，则返回true。
func IsInvalidConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsQuotaExceeded returns true if the error indicates the store is out of quota.
//
// IsQuotaExceeded 如果错误表示存储配额不足，则返回true。
func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

// IsSerializationError returns true if the error is related to serialization.
//
// IsSerializationError 如果错误与序列化相关，则返回true。
func IsSerializationError(err error) bool {
	return errors.Is(err, ErrSerializationFailed) || errors.Is(err, ErrDeserializationFailed)
}

// IsClosed returns true if the error indicates that the cache is closed.
//
// IsClosed 如果错误表示缓存已关闭，则返回true。
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}
