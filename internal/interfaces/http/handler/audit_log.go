package handler

import (
	"github.com/gin-gonic/gin"
	auditapp "github.com/pdv/backend/internal/application/audit"
	"github.com/pdv/backend/internal/interfaces/http/middleware"
)

// AuditLogHandler exposes the audit trail for reading
type AuditLogHandler struct {
	BaseHandler
	service *auditapp.Service
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(service *auditapp.Service) *AuditLogHandler {
	return &AuditLogHandler{service: service}
}

// List godoc
// @ID           listAuditLogs
// @Summary      List audit log entries
// @Tags         audit-logs
// @Produce      json
// @Param        page       query int    false "Page number" default(1)
// @Param        pageSize   query int    false "Page size" default(20)
// @Param        userId     query string false "Acting user" format(uuid)
// @Param        entityType query string false "Entity type, e.g. sale"
// @Param        entityId   query string false "Entity ID"
// @Param        action     query string false "Action, e.g. sale_cancel"
// @Param        from       query string false "First day (YYYY-MM-DD)"
// @Param        to         query string false "Last day, inclusive (YYYY-MM-DD)"
// @Success      200 {object} ListResponse[auditapp.LogResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /audit-logs [get]
func (h *AuditLogHandler) List(c *gin.Context) {
	var filter auditapp.LogFilter
	if !middleware.BindQuery(c, &filter) {
		return
	}

	logs, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, logs, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getAuditLog
// @Summary      Get an audit log entry
// @Tags         audit-logs
// @Produce      json
// @Param        id path string true "Entry ID" format(uuid)
// @Success      200 {object} APIResponse[auditapp.LogResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /audit-logs/{id} [get]
func (h *AuditLogHandler) GetByID(c *gin.Context) {
	id, ok := middleware.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, entry)
}
