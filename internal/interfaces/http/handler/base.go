package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pdv/backend/internal/domain/identity"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/pdv/backend/internal/infrastructure/logger"
	"github.com/pdv/backend/internal/interfaces/http/dto"
	"github.com/pdv/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response wrapping data
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response wrapping data
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a page of results with pagination meta. page and
// pageSize are normalized the same way repositories normalize them.
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	f := shared.Filter{Page: page, PageSize: pageSize}
	f.Normalize()
	c.JSON(http.StatusOK, dto.NewListResponse(data, total, f.Page, f.PageSize))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error converts err into the error envelope. Domain errors map to their
// status code; anything else is logged and answered with a generic 500.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	status, resp, known := dto.TranslateError(err)
	resp.RequestID = middleware.GetRequestID(c)

	log := logger.GetGinLogger(c)
	switch {
	case !known:
		log.Error("Unhandled error", zap.Error(err), zap.String("path", c.FullPath()))
	case status >= http.StatusInternalServerError:
		log.Warn("Request failed", zap.String("code", resp.Code), zap.Error(err))
	default:
		log.Debug("Request rejected", zap.String("code", resp.Code), zap.String("message", resp.Message))
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

// Unauthorized answers 401 with the standard message
func (h *BaseHandler) Unauthorized(c *gin.Context) {
	middleware.AbortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, dto.MsgUnauthorized)
}

// identityOf returns the authenticated caller or answers 401
func (h *BaseHandler) identityOf(c *gin.Context) (identity.Identity, bool) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		h.Unauthorized(c)
		return identity.Identity{}, false
	}
	return id, true
}
