package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pdv/backend/internal/domain/identity"
	"github.com/pdv/backend/internal/infrastructure/auth"
	"github.com/pdv/backend/internal/infrastructure/logger"
	"github.com/pdv/backend/internal/interfaces/http/dto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Gin context keys set by Authenticate
const (
	IdentityKey = "identity"
	ClaimsKey   = "jwt_claims"

	authHeader   = "Authorization"
	bearerPrefix = "Bearer "
)

// TokenValidator validates access tokens
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

// Authenticate requires a valid, unrevoked bearer access token. The caller's
// identity is attached to the gin context, the request context and the
// request logger. Blacklist store errors are logged and the token accepted.
func Authenticate(tokens TokenValidator, blacklist auth.TokenBlacklist, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authHeader)
		if header == "" {
			unauthorized(c, dto.ErrCodeUnauthorized, dto.MsgUnauthorized)
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) || strings.TrimSpace(header[len(bearerPrefix):]) == "" {
			unauthorized(c, "INVALID_TOKEN", "Invalid authorization header format")
			return
		}

		claims, err := tokens.ValidateAccessToken(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			log.Debug("Access token rejected", zap.Error(err), zap.String("path", c.Request.URL.Path))
			if errors.Is(err, auth.ErrExpiredToken) {
				unauthorized(c, "INVALID_TOKEN", "Token has expired")
				return
			}
			unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		id, err := claims.Identity()
		if err != nil {
			unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		if blacklist != nil && isRevoked(c, blacklist, claims, log) {
			unauthorized(c, "INVALID_TOKEN", "Token has been revoked")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(IdentityKey, id)

		ctx := identity.WithIdentity(c.Request.Context(), id)
		ctx, reqLogger := logger.WithUserID(ctx, logger.FromContext(ctx), id.UserID.String())
		c.Request = c.Request.WithContext(ctx)
		logger.SetGinLogger(c, reqLogger)

		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			span.SetAttributes(
				attribute.String("user_id", id.UserID.String()),
				attribute.String("user_role", id.Role.String()),
			)
		}
		c.Next()
	}
}

func isRevoked(c *gin.Context, blacklist auth.TokenBlacklist, claims *auth.Claims, log *zap.Logger) bool {
	ctx := c.Request.Context()
	revoked, err := blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		log.Warn("Token blacklist lookup failed", zap.String("jti", claims.ID), zap.Error(err))
		return false
	}
	if revoked {
		return true
	}
	revoked, err = blacklist.IsUserRevoked(ctx, claims.Subject, claims.IssuedAtTime())
	if err != nil {
		log.Warn("User revocation lookup failed", zap.String("user_id", claims.Subject), zap.Error(err))
		return false
	}
	return revoked
}

func unauthorized(c *gin.Context, code, message string) {
	AbortWithError(c, http.StatusUnauthorized, code, message)
}

// GetIdentity returns the authenticated caller, if any
func GetIdentity(c *gin.Context) (identity.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return identity.Identity{}, false
	}
	id, ok := v.(identity.Identity)
	return id, ok
}

// GetClaims returns the validated access token claims, if any
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
