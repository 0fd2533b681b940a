package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func rateLimitedRouter(requestsPerMinute int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(requestsPerMinute))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return r
}

func doPing(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitAllowsBurst(t *testing.T) {
	r := rateLimitedRouter(300)

	// 背靠背的连续请求吃突发额度，不应该被拒
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doPing(r, "10.1.0.1"), "request %d", i)
	}
}

func TestRateLimitBlocksSustainedExcess(t *testing.T) {
	r := rateLimitedRouter(60)

	// 60/min 的突发额度是 5，耗尽后立刻再来的请求被拒
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doPing(r, "10.1.0.2"), "request %d", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, doPing(r, "10.1.0.2"))
}

func TestRateLimitPerIP(t *testing.T) {
	r := rateLimitedRouter(60)

	// 一个 IP 被限不影响另一个
	for i := 0; i < 6; i++ {
		doPing(r, "10.1.0.3")
	}
	assert.Equal(t, http.StatusTooManyRequests, doPing(r, "10.1.0.3"))
	assert.Equal(t, http.StatusOK, doPing(r, "10.1.0.4"))
}
