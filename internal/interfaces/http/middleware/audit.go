package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/audit"
)

const (
	auditActorKey  = "audit_actor_id"
	auditEntityKey = "audit_entity_id"
	auditOldKey    = "audit_old_value"
	auditNewKey    = "audit_new_value"
)

// AuditRecorder accepts entries for asynchronous persistence
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// Audit records exactly one audit entry for the route once the handler has
// answered with a 2xx status. Error responses are never audited. The acting
// user is the authenticated identity, or the one named with SetAuditActor on
// public routes such as login.
func Audit(recorder AuditRecorder, action audit.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}

		entityID := c.GetString(auditEntityKey)
		if entityID == "" {
			entityID = c.Param("id")
		}
		entry := audit.Entry{
			Action:      action,
			EntityID:    entityID,
			Description: c.Request.Method + " " + c.Request.URL.Path,
			IPAddress:   c.ClientIP(),
			UserAgent:   c.Request.UserAgent(),
			RequestID:   GetRequestID(c),
		}
		if id, ok := GetIdentity(c); ok {
			userID := id.UserID
			entry.UserID = &userID
		} else if actor, ok := c.Get(auditActorKey); ok {
			userID := actor.(uuid.UUID)
			entry.UserID = &userID
		}
		if v, ok := c.Get(auditOldKey); ok {
			entry.OldValue = v
		}
		if v, ok := c.Get(auditNewKey); ok {
			entry.NewValue = v
		}
		recorder.Record(c.Request.Context(), entry)
	}
}

// SetAuditActor names the acting user on routes that run without an
// authenticated identity.
func SetAuditActor(c *gin.Context, userID uuid.UUID) {
	c.Set(auditActorKey, userID)
}

// SetAuditEntity stores the id of the entity touched by the request
func SetAuditEntity(c *gin.Context, id string) {
	c.Set(auditEntityKey, id)
}

// SetAuditChanges stores the before and after snapshots of the entity.
// Either may be nil, e.g. old for a creation.
func SetAuditChanges(c *gin.Context, oldValue, newValue any) {
	if oldValue != nil {
		c.Set(auditOldKey, oldValue)
	}
	if newValue != nil {
		c.Set(auditNewKey, newValue)
	}
}
