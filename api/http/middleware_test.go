package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/tiercache/pkg/cache"
)

// newTestRouter 构建带响应缓存的测试路由，返回路由和处理器调用计数
func newTestRouter(t *testing.T, config *MiddlewareConfig) (*gin.Engine, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := cache.NewWithOptions("middleware-test")
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	calls := 0
	router := gin.New()
	router.Use(CacheResponses(store, config))
	router.GET("/runs", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"run": c.Query("id"), "call": calls})
	})
	router.GET("/broken", func(c *gin.Context) {
		calls++
		c.String(http.StatusInternalServerError, "boom")
	})
	router.POST("/runs", func(c *gin.Context) {
		calls++
		c.String(http.StatusOK, "created")
	})
	return router, &calls
}

// get 执行一次GET请求并返回记录器
func get(router *gin.Engine, url string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestCacheResponsesServesSecondRequestFromCache verifies the second
// identical GET is a cache hit and the handler runs once.
//
// TestCacheResponsesServesSecondRequestFromCache 验证第二个相同的GET
// 是缓存命中且处理器只运行一次。
func TestCacheResponsesServesSecondRequestFromCache(t *testing.T) {
	router, calls := newTestRouter(t, nil)

	first := get(router, "/runs?id=7", nil)
	if first.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", first.Code)
	}
	if got := first.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("Expected X-Cache MISS on first request, got '%s'", got)
	}

	second := get(router, "/runs?id=7", nil)
	if got := second.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("Expected X-Cache HIT on second request, got '%s'", got)
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("Expected identical cached body, got '%s' vs '%s'", second.Body.String(), first.Body.String())
	}
	if *calls != 1 {
		t.Errorf("Expected handler to run once, ran %d times", *calls)
	}
}

// TestCacheResponsesDistinguishesQueryParams verifies different query values
// map to different cache entries.
//
// TestCacheResponsesDistinguishesQueryParams 验证不同的查询值映射到不同的缓存条目。
func TestCacheResponsesDistinguishesQueryParams(t *testing.T) {
	router, calls := newTestRouter(t, nil)

	get(router, "/runs?id=1", nil)
	get(router, "/runs?id=2", nil)
	if *calls != 2 {
		t.Errorf("Expected 2 handler runs for distinct params, got %d", *calls)
	}

	// 参数顺序无关
	get(router, "/runs?id=1&v=x", nil)
	get(router, "/runs?v=x&id=1", nil)
	if *calls != 3 {
		t.Errorf("Expected reordered params to hit, handler ran %d times", *calls)
	}
}

// TestCacheResponsesSkipsNon200 verifies error responses are not cached.
//
// TestCacheResponsesSkipsNon200 验证错误响应不被缓存。
func TestCacheResponsesSkipsNon200(t *testing.T) {
	router, calls := newTestRouter(t, nil)

	get(router, "/broken", nil)
	get(router, "/broken", nil)
	if *calls != 2 {
		t.Errorf("Expected error responses to bypass cache, handler ran %d times", *calls)
	}
}

// TestCacheResponsesSkipsNonGET verifies non-GET requests bypass the cache
// under the default predicate.
//
// TestCacheResponsesSkipsNonGET 验证在默认谓词下非GET请求绕过缓存。
func TestCacheResponsesSkipsNonGET(t *testing.T) {
	router, calls := newTestRouter(t, nil)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/runs", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
	if *calls != 2 {
		t.Errorf("Expected POST to bypass cache, handler ran %d times", *calls)
	}
}

// TestCacheResponsesVaryHeaders verifies configured headers split the cache key.
//
// TestCacheResponsesVaryHeaders 验证配置的请求头拆分缓存键。
func TestCacheResponsesVaryHeaders(t *testing.T) {
	router, calls := newTestRouter(t, &MiddlewareConfig{
		TTL:         time.Minute,
		VaryHeaders: []string{"Accept-Language"},
	})

	get(router, "/runs", map[string]string{"Accept-Language": "en"})
	get(router, "/runs", map[string]string{"Accept-Language": "zh"})
	if *calls != 2 {
		t.Errorf("Expected distinct entries per vary header, handler ran %d times", *calls)
	}

	get(router, "/runs", map[string]string{"Accept-Language": "en"})
	if *calls != 2 {
		t.Errorf("Expected vary header repeat to hit, handler ran %d times", *calls)
	}
}

// TestStatsHeaders verifies statistics headers are attached to responses.
//
// TestStatsHeaders 验证统计响应头附加到响应。
func TestStatsHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store, err := cache.NewWithOptions("stats-test")
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	router := gin.New()
	router.Use(StatsHeaders(store))
	router.GET("/ping", func(c *gin.Context) {
		var out string
		_, _ = store.Get(c.Request.Context(), "warm", nil, &out)
		c.Status(http.StatusNoContent)
	})

	w := get(router, "/ping", nil)
	if got := w.Header().Get("X-Cache-Misses"); got != "1" {
		t.Errorf("Expected X-Cache-Misses '1', got '%s'", got)
	}
	if got := w.Header().Get("X-Cache-Hit-Ratio"); got != fmt.Sprintf("%.2f", 0.0) {
		t.Errorf("Expected X-Cache-Hit-Ratio '0.00', got '%s'", got)
	}
}
