// Package http provides Gin middleware that integrates the tiered cache
// with HTTP servers: transparent response caching plus cache statistics
// headers for observability.
//
// Package http 提供将分层缓存与HTTP服务器集成的Gin中间件：
// 透明的响应缓存，以及用于可观测性的缓存统计响应头。
package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/tiercache/pkg/cache"
)

// cachedResponse 是被缓存的HTTP响应体及其元数据
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// MiddlewareConfig holds configuration for the response caching middleware.
// Zero values select the defaults documented on each field.
//
// MiddlewareConfig 保存响应缓存中间件的配置。
// 零值选择各字段记录的默认值。
type MiddlewareConfig struct {
	// TTL is the time-to-live for cached responses; 0 uses the cache's default
	// TTL 是缓存响应的生存时间；0使用缓存的默认值
	TTL time.Duration

	// ShouldCache decides whether a request participates in caching.
	// The default caches GET requests only.
	//
	// ShouldCache 决定请求是否参与缓存。默认仅缓存GET请求。
	ShouldCache func(c *gin.Context) bool

	// VaryHeaders lists request headers folded into the cache key
	// VaryHeaders 列出折叠进缓存键的请求头
	VaryHeaders []string
}

// CacheResponses returns middleware that serves repeated requests from the
// cache. The cache key derives from the request path, the query parameters
// and any configured vary headers, so equivalent requests hit the same entry
// regardless of parameter order. Only 200 responses are stored.
//
// CacheResponses 返回从缓存中服务重复请求的中间件。
// 缓存键由请求路径、查询参数和任何配置的vary头派生，
// 因此等价的请求无论参数顺序如何都命中同一条目。只存储200响应。
//
// Parameters:
//   - store: The cache instance to read and write
//   - config: Middleware configuration, may be nil for defaults
//
// Returns:
//   - gin.HandlerFunc: The caching middleware
func CacheResponses(store cache.ICache, config *MiddlewareConfig) gin.HandlerFunc {
	if config == nil {
		config = &MiddlewareConfig{}
	}
	shouldCache := config.ShouldCache
	if shouldCache == nil {
		shouldCache = func(c *gin.Context) bool {
			return c.Request.Method == http.MethodGet
		}
	}

	return func(c *gin.Context) {
		if !shouldCache(c) {
			c.Next()
			return
		}

		identifier, params := requestKey(c, config.VaryHeaders)

		var cached cachedResponse
		if found, err := store.Get(c.Request.Context(), identifier, params, &cached); err == nil && found {
			c.Header("X-Cache", "HIT")
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		writer := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Header("X-Cache", "MISS")
		c.Next()

		if writer.Status() != http.StatusOK {
			return
		}
		response := cachedResponse{
			Status:      writer.Status(),
			ContentType: writer.Header().Get("Content-Type"),
			Body:        writer.body.Bytes(),
		}
		// 回写失败不影响已发送的响应
		_ = store.Set(c.Request.Context(), identifier, params, response, config.TTL)
	}
}

// requestKey 从请求路径、查询参数和vary头派生缓存标识符和参数
func requestKey(c *gin.Context, varyHeaders []string) (string, map[string]any) {
	params := make(map[string]any)
	for name, values := range c.Request.URL.Query() {
		params[name] = strings.Join(values, ",")
	}
	for _, header := range varyHeaders {
		if value := c.GetHeader(header); value != "" {
			params["hdr:"+strings.ToLower(header)] = value
		}
	}
	if len(params) == 0 {
		params = nil
	}
	return c.Request.URL.Path, params
}

// captureWriter 在写入下游的同时捕获响应体
type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// StatsHeaders returns middleware that attaches cache statistics to every
// response for quick inspection from the browser's network panel.
//
// StatsHeaders 返回将缓存统计信息附加到每个响应的中间件，
// 便于从浏览器的网络面板快速检查。
//
// Parameters:
//   - store: The cache instance to report on
//
// Returns:
//   - gin.HandlerFunc: The stats middleware
func StatsHeaders(store cache.ICache) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		stats, err := store.Stats(c.Request.Context())
		if err != nil {
			return
		}
		c.Header("X-Cache-Hits", fmt.Sprintf("%d", stats.Hits))
		c.Header("X-Cache-Misses", fmt.Sprintf("%d", stats.Misses))
		c.Header("X-Cache-Hit-Ratio", fmt.Sprintf("%.2f", stats.HitRate))
		c.Header("X-Cache-Entries", fmt.Sprintf("%d", stats.EntryCount))
		c.Header("X-Cache-Size", fmt.Sprintf("%d", stats.SizeBytes))
	}
}
