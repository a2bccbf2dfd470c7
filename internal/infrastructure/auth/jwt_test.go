package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/identity"
	"github.com/pdv/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "access-secret-for-tests-0123456789",
		RefreshSecret:          "refresh-secret-for-tests-0123456789",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "pdv-test",
		MaxRefreshCount:        2,
	})
}

func testSubject() Subject {
	return Subject{UserID: uuid.New(), Email: "caixa@loja.com", Role: identity.RoleCashier}
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	subject := testSubject()

	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(900), pair.ExpiresIn)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, subject.UserID.String(), claims.Subject)
	assert.Equal(t, subject.Email, claims.Email)
	assert.Equal(t, identity.RoleCashier, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, "pdv-test", claims.Issuer)

	id, err := claims.Identity()
	require.NoError(t, err)
	assert.Equal(t, subject.UserID, id.UserID)
	assert.Equal(t, identity.RoleCashier, id.Role)

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
	assert.Empty(t, refresh.Email)
	assert.Zero(t, refresh.RefreshCount)
	assert.NotEqual(t, claims.ID, refresh.ID)
}

func TestValidate_WrongTokenType(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                 "shared-secret-shared-secret-000000",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "pdv-test",
		MaxRefreshCount:        1,
	})

	pair, err := svc.GenerateTokenPair(testSubject())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidate_Failures(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(testSubject())
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered signature", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.AccessToken + "x")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("signed with another secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "a-completely-different-secret-value",
			AccessTokenExpiration: time.Minute,
			Issuer:                "pdv-test",
		})
		foreign, err := other.GenerateTokenPair(testSubject())
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(foreign.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := newTestJWTService()
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		old, err := past.GenerateTokenPair(testSubject())
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(old.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := newTestJWTService()
		other.issuer = "someone-else"
		foreign, err := other.GenerateTokenPair(testSubject())
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(foreign.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Subject:   uuid.NewString(),
				Issuer:    "pdv-test",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			Role:      identity.RoleAdmin,
			TokenType: TokenTypeAccess,
		}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("subject is not a uuid", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Subject:   "admin",
				Issuer:    "pdv-test",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			TokenType: TokenTypeAccess,
		}
		token, err := sign(claims, svc.accessSecret)
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	subject := testSubject()

	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)

	for want := 1; want <= 2; want++ {
		claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)

		pair, err = svc.RefreshTokenPair(claims, subject)
		require.NoError(t, err)

		next, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, want, next.RefreshCount)
	}

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	_, err = svc.RefreshTokenPair(claims, subject)
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

func TestClaims_Helpers(t *testing.T) {
	c := &Claims{}
	assert.Zero(t, c.RemainingTTL())
	assert.True(t, c.IssuedAtTime().IsZero())

	c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	assert.Zero(t, c.RemainingTTL())

	c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(10 * time.Minute))
	assert.InDelta(t, (10 * time.Minute).Seconds(), c.RemainingTTL().Seconds(), 2)

	c.Subject = uuid.NewString()
	c.Role = identity.Role("owner")
	_, err := c.Identity()
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestNewJWTService_RefreshSecretFallback(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "only-secret"})
	assert.Equal(t, svc.accessSecret, svc.refreshSecret)
}
