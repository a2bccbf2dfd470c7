package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pdv/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validStorageConfig() config.StorageConfig {
	return config.StorageConfig{
		Enabled:           true,
		Endpoint:          "minio.local:9000",
		Region:            "sa-east-1",
		Bucket:            "pdv-assets",
		AccessKey:         "minio",
		SecretKey:         "minio-secret",
		UsePathStyle:      true,
		PresignExpiration: 10 * time.Minute,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*config.StorageConfig)
		wantErr string
	}{
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }, "bucket is required"},
		{"missing access key", func(c *config.StorageConfig) { c.AccessKey = "" }, "access key is required"},
		{"missing secret key", func(c *config.StorageConfig) { c.SecretKey = "" }, "secret key is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validStorageConfig()
			tt.mutate(&cfg)
			_, err := NewS3ObjectStorage(ctx, cfg, zap.NewNop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestS3ObjectStorage_PresignGet(t *testing.T) {
	s, err := NewS3ObjectStorage(context.Background(), validStorageConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, "pdv-assets", s.Bucket())

	u, err := s.PresignGet(context.Background(), "company/logo.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "http://minio.local:9000/pdv-assets/company/logo.png"), u)
	assert.Contains(t, u, "X-Amz-Expires=600")

	_, err = s.PresignGet(context.Background(), "")
	assert.ErrorIs(t, err, errEmptyKey)
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "", normalizeEndpoint("", true))
	assert.Equal(t, "https://s3.local", normalizeEndpoint("s3.local", true))
	assert.Equal(t, "http://s3.local", normalizeEndpoint("s3.local", false))
	assert.Equal(t, "http://already", normalizeEndpoint("http://already", true))
}

func TestMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryObjectStorage("https://cdn.test")

	require.NoError(t, m.PutObject(ctx, "company/logo.png", "image/png", strings.NewReader("png-bytes"), 9))

	obj, ok := m.Get("company/logo.png")
	require.True(t, ok)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, []byte("png-bytes"), obj.Data)

	u, err := m.PresignGet(ctx, "company/logo.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/company%2Flogo.png", u)

	require.NoError(t, m.DeleteObject(ctx, "company/logo.png"))
	_, ok = m.Get("company/logo.png")
	assert.False(t, ok)

	assert.ErrorIs(t, m.PutObject(ctx, "", "x", strings.NewReader(""), 0), errEmptyKey)
}
