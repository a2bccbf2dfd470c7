package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/pdv/backend/internal/domain/identity"
	"github.com/pdv/backend/internal/infrastructure/logger"
	"github.com/pdv/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RequireRoles lets through only identities whose role is in the allow-list.
// It must run after Authenticate; without an identity it answers 401.
func RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	allowed := slices.Clone(roles)
	return func(c *gin.Context) {
		id, ok := GetIdentity(c)
		if !ok {
			AbortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, dto.MsgUnauthorized)
			return
		}
		if !slices.Contains(allowed, id.Role) {
			logger.GetGinLogger(c).Info("Access denied",
				zap.String("role", id.Role.String()),
				zap.String("route", c.FullPath()))
			AbortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, dto.MsgForbidden)
			return
		}
		c.Next()
	}
}

// RequirePermission lets through only roles granted p
func RequirePermission(p identity.Permission) gin.HandlerFunc {
	return RequireRoles(identity.RolesWith(p)...)
}
