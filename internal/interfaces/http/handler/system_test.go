package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler("PDV Backend API", "1.2.0", nil)
	engine := newEngine()
	engine.GET("/health", h.Health)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", gjson.Get(w.Body.String(), "status").String())
	assert.NotEmpty(t, gjson.Get(w.Body.String(), "time").String())
}

func TestSystemHandler_Ready(t *testing.T) {
	ok := func(context.Context) error { return nil }

	t.Run("all checks pass", func(t *testing.T) {
		h := NewSystemHandler("pdv", "test", map[string]HealthCheck{"database": ok, "redis": ok})
		engine := newEngine()
		engine.GET("/ready", h.Ready)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		body := w.Body.String()
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", gjson.Get(body, "status").String())
		assert.Equal(t, "ok", gjson.Get(body, "checks.database").String())
		assert.Equal(t, "ok", gjson.Get(body, "checks.redis").String())
	})

	t.Run("a failing check answers 503 without leaking the error", func(t *testing.T) {
		h := NewSystemHandler("pdv", "test", map[string]HealthCheck{
			"database": ok,
			"redis":    func(context.Context) error { return errors.New("dial tcp 10.0.0.3:6379: refused") },
		})
		engine := newEngine()
		engine.GET("/ready", h.Ready)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		body := w.Body.String()
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", gjson.Get(body, "status").String())
		assert.Equal(t, "ok", gjson.Get(body, "checks.database").String())
		assert.Equal(t, "error", gjson.Get(body, "checks.redis").String())
		assert.NotContains(t, body, "10.0.0.3")
	})

	t.Run("slow checks are cut off by the timeout", func(t *testing.T) {
		h := NewSystemHandler("pdv", "test", map[string]HealthCheck{
			"storage": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		})
		h.timeout = 20 * time.Millisecond
		engine := newEngine()
		engine.GET("/ready", h.Ready)

		start := time.Now()
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("PDV Backend API", "1.2.0", nil)
	engine := newEngine()
	engine.GET("/system/info", h.GetSystemInfo)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/system/info", nil))

	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PDV Backend API", gjson.Get(body, "data.name").String())
	assert.Equal(t, "1.2.0", gjson.Get(body, "data.version").String())
	assert.Contains(t, gjson.Get(body, "data.goVersion").String(), "go")
}
