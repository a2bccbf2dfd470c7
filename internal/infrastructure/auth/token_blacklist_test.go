package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_Revoke(t *testing.T) {
	ctx := context.Background()
	bl := NewInMemoryTokenBlacklist()

	revoked, err := bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Entries disappear once the token would have expired anyway.
	now := time.Now()
	bl.now = func() time.Time { return now.Add(2 * time.Minute) }
	revoked, err = bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, bl.jtis)
}

func TestInMemoryTokenBlacklist_NonPositiveTTL(t *testing.T) {
	ctx := context.Background()
	bl := NewInMemoryTokenBlacklist()

	require.NoError(t, bl.Revoke(ctx, "expired", 0))
	revoked, err := bl.IsRevoked(ctx, "expired")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_RevokeUser(t *testing.T) {
	ctx := context.Background()
	bl := NewInMemoryTokenBlacklist()

	issued := time.Now().Add(-time.Minute)
	revoked, err := bl.IsUserRevoked(ctx, "user-1", issued)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.RevokeUser(ctx, "user-1", time.Hour))

	revoked, err = bl.IsUserRevoked(ctx, "user-1", issued)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = bl.IsUserRevoked(ctx, "user-1", time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = bl.IsUserRevoked(ctx, "user-2", issued)
	require.NoError(t, err)
	assert.False(t, revoked)
}
