package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func bodyLimitEngine(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(BodyLimit(limit))
	handler := func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusBadRequest, "read failed")
			return
		}
		c.String(http.StatusOK, "ok")
	}
	engine.POST("/sales", handler)
	engine.GET("/sales", handler)
	return engine
}

func TestBodyLimit(t *testing.T) {
	tests := []struct {
		name          string
		limit         int64
		method        string
		body          string
		contentLength int64
		wantStatus    int
	}{
		{"body within limit", 64, http.MethodPost, `{"items":[]}`, 12, http.StatusOK},
		{"declared length over limit", 64, http.MethodPost, strings.Repeat("x", 200), 200, http.StatusRequestEntityTooLarge},
		{"chunked body over limit fails on read", 64, http.MethodPost, strings.Repeat("x", 200), -1, http.StatusBadRequest},
		{"request without body", 8, http.MethodGet, "", 0, http.StatusOK},
		{"non-positive limit disables the check", 0, http.MethodPost, strings.Repeat("x", 200), 200, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, "/sales", body)
			req.ContentLength = tt.contentLength
			w := httptest.NewRecorder()

			bodyLimitEngine(tt.limit).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusRequestEntityTooLarge {
				assert.Equal(t, "REQUEST_TOO_LARGE", gjson.Get(w.Body.String(), "code").String())
				assert.Contains(t, gjson.Get(w.Body.String(), "message").String(), "64 byte")
			}
		})
	}
}
