//go:build integration

package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	client := startRedis(t)
	bl := NewRedisTokenBlacklist(client)

	require.NoError(t, bl.Revoke(ctx, "jti-redis", time.Minute))
	revoked, err := bl.IsRevoked(ctx, "jti-redis")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := client.TTL(ctx, jtiKey("jti-redis")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	revoked, err = bl.IsRevoked(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, revoked)

	issued := time.Now().Add(-time.Minute)
	require.NoError(t, bl.RevokeUser(ctx, "user-1", time.Hour))
	revoked, err = bl.IsUserRevoked(ctx, "user-1", issued)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = bl.IsUserRevoked(ctx, "user-2", issued)
	require.NoError(t, err)
	assert.False(t, revoked)
}
