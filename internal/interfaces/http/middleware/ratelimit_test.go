package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestRateLimiter_Burst(t *testing.T) {
	limiter := NewRateLimiter(1, 3, time.Minute)
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"), "request %d should be allowed", i+1)
	}
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"), "keys are limited independently")
}

func TestRateLimiter_Refills(t *testing.T) {
	limiter := NewRateLimiter(50, 1, time.Minute)
	defer limiter.Stop()

	assert.True(t, limiter.Allow("client"))
	assert.False(t, limiter.Allow("client"))
	time.Sleep(40 * time.Millisecond)
	assert.True(t, limiter.Allow("client"))
}

func TestRateLimiter_Sweep(t *testing.T) {
	limiter := NewRateLimiter(1, 1, time.Minute)
	defer limiter.Stop()

	limiter.Allow("stale")
	limiter.sweep(time.Now().Add(2 * time.Minute))

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Empty(t, limiter.clients)
}

func TestRateLimit_Middleware(t *testing.T) {
	limiter := NewRateLimiter(0.01, 2, time.Minute)
	defer limiter.Stop()

	router := gin.New()
	router.POST("/auth/login", RateLimit(limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		w := serve(router, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := serve(router, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", gjson.Get(w.Body.String(), "code").String())
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
