// Package compress 提供缓存值的透明压缩
// 压缩失败绝不导致写入失败，调用方回退到未压缩存储
package compress

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// Compressor compresses and decompresses serialized cache payloads.
//
// Compressor 压缩和解压序列化后的缓存负载。
type Compressor interface {
	// Compress 压缩数据
	Compress(data []byte) ([]byte, error)

	// Decompress 解压数据
	Decompress(data []byte) ([]byte, error)

	// Name 返回压缩算法名称
	Name() string
}

// GzipCompressor implements Compressor using the standard gzip format.
//
// GzipCompressor 使用标准gzip格式实现Compressor。
type GzipCompressor struct {
	level int
}

// NewGzipCompressor creates a gzip compressor with the given level.
// Levels outside the valid range fall back to the default level.
//
// NewGzipCompressor 创建具有给定级别的gzip压缩器。
// 超出有效范围的级别回退到默认级别。
func NewGzipCompressor(level int) *GzipCompressor {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}
	return &GzipCompressor{level: level}
}

// Compress 压缩数据
func (c *GzipCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress 解压数据
func (c *GzipCompressor) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Name 返回"gzip"
func (c *GzipCompressor) Name() string {
	return "gzip"
}

// BrotliCompressor implements Compressor using the Brotli format.
// Brotli trades slower writes for a better compression ratio, which suits
// large, rarely rewritten payloads such as stored test results.
//
// BrotliCompressor 使用Brotli格式实现Compressor。
// Brotli以较慢的写入换取更好的压缩率，适合大型、很少重写的负载，如存储的测试结果。
type BrotliCompressor struct {
	quality int
}

// NewBrotliCompressor creates a Brotli compressor with the given quality (0-11).
//
// NewBrotliCompressor 创建具有给定质量（0-11）的Brotli压缩器。
func NewBrotliCompressor(quality int) *BrotliCompressor {
	if quality < brotli.BestSpeed || quality > brotli.BestCompression {
		quality = brotli.DefaultCompression
	}
	return &BrotliCompressor{quality: quality}
}

// Compress 压缩数据
func (c *BrotliCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, c.quality)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress 解压数据
func (c *BrotliCompressor) Decompress(data []byte) ([]byte, error) {
	return io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
}

// Name 返回"brotli"
func (c *BrotliCompressor) Name() string {
	return "brotli"
}

// New returns a compressor by algorithm name.
// Supported names: "gzip", "brotli". An empty name selects gzip.
//
// New 通过算法名称返回压缩器。
// 支持的名称："gzip"、"brotli"。空名称选择gzip。
func New(name string) (Compressor, error) {
	switch name {
	case "gzip", "":
		return NewGzipCompressor(gzip.DefaultCompression), nil
	case "brotli":
		return NewBrotliCompressor(brotli.DefaultCompression), nil
	default:
		return nil, fmt.Errorf("unknown compression algorithm: %s", name)
	}
}
