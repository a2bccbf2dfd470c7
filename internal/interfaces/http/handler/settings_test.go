package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	settingsapp "github.com/pdv/backend/internal/application/settings"
	"github.com/pdv/backend/internal/infrastructure/config"
	"github.com/pdv/backend/internal/infrastructure/persistence"
	"github.com/pdv/backend/internal/infrastructure/persistence/models"
	"github.com/pdv/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	gormlogger "gorm.io/gorm/logger"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x10\x00\x00\x00\x10\x08\x06\x00\x00\x00")

func newSettingsService(t *testing.T, store settingsapp.ObjectStorage) *settingsapp.Service {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	database, err := persistence.Open(sqlite.Open(dsn), config.DatabaseConfig{MaxOpenConns: 1},
		persistence.Options{LogLevel: gormlogger.Silent})
	require.NoError(t, err)
	require.NoError(t, database.DB.AutoMigrate(models.All()...))
	t.Cleanup(func() { _ = database.Close() })

	return settingsapp.NewService(persistence.NewGormSettingsRepository(database.DB), store, 4<<10, zap.NewNop())
}

func uploadRequest(t *testing.T, field, filename, declaredType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="` + field + `"; filename="` + filename + `"`}
	header["Content-Type"] = []string{declaredType}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/settings/company-info/logo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSettingsHandler_UploadLogo(t *testing.T) {
	t.Run("stores a sniffed PNG and returns its URL", func(t *testing.T) {
		store := storage.NewMemoryObjectStorage("http://files.test")
		h := NewSettingsHandler(newSettingsService(t, store))
		engine := newEngine()
		engine.POST("/settings/company-info/logo", h.UploadLogo)

		content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 600)...)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, uploadRequest(t, LogoFormField, "logo.png", "application/octet-stream", content))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		key := gjson.Get(w.Body.String(), "data.logoKey").String()
		assert.True(t, strings.HasPrefix(key, "company/logo-"))
		assert.True(t, strings.HasSuffix(key, ".png"))
		assert.True(t, strings.HasPrefix(gjson.Get(w.Body.String(), "data.logoUrl").String(), "http://files.test/"))

		obj, ok := store.Get(key)
		require.True(t, ok)
		assert.Equal(t, "image/png", obj.ContentType)
		assert.Equal(t, content, obj.Data)
	})

	t.Run("declared image type does not override content", func(t *testing.T) {
		h := NewSettingsHandler(newSettingsService(t, storage.NewMemoryObjectStorage("")))
		engine := newEngine()
		engine.POST("/settings/company-info/logo", h.UploadLogo)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, uploadRequest(t, LogoFormField, "logo.png", "image/png", []byte("<script>alert(1)</script>")))

		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
		assert.Equal(t, "UNSUPPORTED_MEDIA_TYPE", gjson.Get(w.Body.String(), "code").String())
	})

	t.Run("oversized file", func(t *testing.T) {
		h := NewSettingsHandler(newSettingsService(t, storage.NewMemoryObjectStorage("")))
		engine := newEngine()
		engine.POST("/settings/company-info/logo", h.UploadLogo)

		content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 8<<10)...)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, uploadRequest(t, LogoFormField, "logo.png", "image/png", content))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "FILE_TOO_LARGE", gjson.Get(w.Body.String(), "code").String())
	})

	t.Run("missing file part", func(t *testing.T) {
		h := NewSettingsHandler(newSettingsService(t, storage.NewMemoryObjectStorage("")))
		engine := newEngine()
		engine.POST("/settings/company-info/logo", h.UploadLogo)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, uploadRequest(t, "image", "logo.png", "image/png", pngHeader))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, LogoFormField, gjson.Get(w.Body.String(), "errors.0.field").String())
	})

	t.Run("storage not configured", func(t *testing.T) {
		h := NewSettingsHandler(newSettingsService(t, nil))
		engine := newEngine()
		engine.POST("/settings/company-info/logo", h.UploadLogo)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, uploadRequest(t, LogoFormField, "logo.png", "image/png", pngHeader))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "STORAGE_UNAVAILABLE", gjson.Get(w.Body.String(), "code").String())
	})
}

func TestSettingsHandler_SavePrinterConfigValidation(t *testing.T) {
	h := NewSettingsHandler(newSettingsService(t, nil))
	engine := newEngine()
	engine.POST("/settings/printer", h.SavePrinterConfig)
	engine.GET("/settings/printer", h.GetPrinterConfig)

	req := httptest.NewRequest(http.MethodPost, "/settings/printer",
		strings.NewReader(`{"paperWidthMm":72,"columns":48,"copies":1}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "paperWidthMm", gjson.Get(w.Body.String(), "errors.0.field").String())

	req = httptest.NewRequest(http.MethodPost, "/settings/printer",
		strings.NewReader(`{"enabled":true,"model":"Bematech MP-4200","paperWidthMm":80,"columns":48,"copies":2}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/settings/printer", nil))
	assert.Equal(t, int64(2), gjson.Get(w.Body.String(), "data.copies").Int())
	assert.Equal(t, "Bematech MP-4200", gjson.Get(w.Body.String(), "data.model").String())
}
