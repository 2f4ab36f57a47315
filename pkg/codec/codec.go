// Package codec provides serialization for values stored in the cache.
// Every value passes through a Codec on its way into and out of a storage
// backend, so the cache can account for entry sizes and persist entries
// to durable media.
//
// Package codec 提供缓存中存储值的序列化。
// 每个值在进出存储后端时都会经过Codec，
// 因此缓存可以统计条目大小并将条目持久化到持久介质。
package codec

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
)

// Codec defines the interface for encoding and decoding cache values.
//
// Codec 定义了编码和解码缓存值的接口。
type Codec interface {
	// Marshal serializes a value into bytes.
	//
	// Marshal 将值序列化为字节。
	//
	// Parameters:
	//   - value: The value to serialize
	//
	// Returns:
	//   - []byte: The serialized bytes
	//   - error: An error if serialization fails
	Marshal(value any) ([]byte, error)

	// Unmarshal deserializes bytes into a value.
	// The value parameter must be a pointer to the target type.
	//
	// Unmarshal 将字节反序列化为值。
	// value参数必须是目标类型的指针。
	//
	// Parameters:
	//   - data: The bytes to deserialize
	//   - value: A pointer to the target value
	//
	// Returns:
	//   - error: An error if deserialization fails
	Unmarshal(data []byte, value any) error

	// Name returns the name of this codec, used for identification and debugging.
	//
	// Name 返回此编解码器的名称，用于标识和调试。
	Name() string
}

// JSONCodec implements Codec using JSON serialization.
//
// JSONCodec 使用JSON序列化实现Codec。
type JSONCodec struct{}

// Marshal 将值序列化为JSON字节
func (c *JSONCodec) Marshal(value any) ([]byte, error) {
	return json.Marshal(value)
}

// Unmarshal 将JSON字节反序列化为值
func (c *JSONCodec) Unmarshal(data []byte, value any) error {
	return json.Unmarshal(data, value)
}

// Name 返回"json"
func (c *JSONCodec) Name() string {
	return "json"
}

// NewJSONCodec creates a new JSONCodec.
//
// NewJSONCodec 创建一个新的JSONCodec。
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// GobCodec implements Codec using Gob serialization, a binary format
// optimized for Go types.
//
// GobCodec 使用Gob序列化实现Codec，这是为Go类型优化的二进制格式。
type GobCodec struct{}

// Marshal 将值序列化为Gob字节
func (c *GobCodec) Marshal(value any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal 将Gob字节反序列化为值
func (c *GobCodec) Unmarshal(data []byte, value any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(value)
}

// Name 返回"gob"
func (c *GobCodec) Name() string {
	return "gob"
}

// NewGobCodec creates a new GobCodec.
//
// NewGobCodec 创建一个新的GobCodec。
func NewGobCodec() *GobCodec {
	return &GobCodec{}
}

// StringCodec implements Codec for raw string and byte-slice payloads,
// avoiding serialization overhead for pre-rendered data such as HTML
// fragments or static assets.
//
// StringCodec 为原始字符串和字节切片负载实现Codec，
// 避免预渲染数据（如HTML片段或静态资源）的序列化开销。
type StringCodec struct{}

// Marshal 接受string或[]byte，其他类型返回错误
func (c *StringCodec) Marshal(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("string codec requires string or []byte, got %T", value)
	}
}

// Unmarshal 将字节写入*string或*[]byte
func (c *StringCodec) Unmarshal(data []byte, value any) error {
	switch v := value.(type) {
	case *string:
		*v = string(data)
		return nil
	case *[]byte:
		*v = append((*v)[:0], data...)
		return nil
	default:
		return fmt.Errorf("string codec requires *string or *[]byte, got %T", value)
	}
}

// Name 返回"string"
func (c *StringCodec) Name() string {
	return "string"
}

// NewStringCodec creates a new StringCodec.
//
// NewStringCodec 创建一个新的StringCodec。
func NewStringCodec() *StringCodec {
	return &StringCodec{}
}

// DefaultCodec returns the default codec (JSON).
// This is used when no specific codec is configured.
//
// DefaultCodec 返回默认编解码器（JSON）。
// 当未配置特定编解码器时使用。
func DefaultCodec() Codec {
	return NewJSONCodec()
}

// GetCodec returns a codec by name. Supported names: "json", "gob", "string".
//
// GetCodec 通过名称返回编解码器。支持的名称："json"、"gob"、"string"。
//
// Parameters:
//   - name: The codec name
//
// Returns:
//   - Codec: The requested codec
//   - error: An error if the codec name is unknown
func GetCodec(name string) (Codec, error) {
	switch name {
	case "json", "":
		return NewJSONCodec(), nil
	case "gob":
		return NewGobCodec(), nil
	case "string":
		return NewStringCodec(), nil
	default:
		return nil, fmt.Errorf("unknown codec: %s", name)
	}
}
