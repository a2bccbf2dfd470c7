package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/audit"
)

// AuditLogModel is the persistence model for audit records. Rows are only ever inserted.
type AuditLogModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	UserID       *uuid.UUID `gorm:"type:uuid;index"`
	Action       string     `gorm:"type:varchar(100);not null;index"`
	EntityType   string     `gorm:"type:varchar(50);not null;index:idx_audit_logs_entity,priority:1"`
	EntityID     string     `gorm:"type:varchar(100);index:idx_audit_logs_entity,priority:2"`
	Description  string     `gorm:"type:varchar(500)"`
	OldValueJSON *string    `gorm:"column:old_value;type:jsonb"`
	NewValueJSON *string    `gorm:"column:new_value;type:jsonb"`
	IPAddress    string     `gorm:"type:varchar(45)"`
	UserAgent    string     `gorm:"type:varchar(500)"`
	RequestID    string     `gorm:"type:varchar(64)"`
	CreatedAt    time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the persistence model to a domain audit Log.
// A stored action that does not parse is kept under the row's entity type.
func (m *AuditLogModel) ToDomain() *audit.Log {
	action, err := audit.ParseAction(m.Action)
	if err != nil {
		action = audit.Action{Entity: m.EntityType, Verb: m.Action}
	}
	return &audit.Log{
		ID:          m.ID,
		UserID:      m.UserID,
		Action:      action,
		EntityType:  m.EntityType,
		EntityID:    m.EntityID,
		Description: m.Description,
		OldValue:    rawJSON(m.OldValueJSON),
		NewValue:    rawJSON(m.NewValueJSON),
		IPAddress:   m.IPAddress,
		UserAgent:   m.UserAgent,
		RequestID:   m.RequestID,
		CreatedAt:   m.CreatedAt,
	}
}

// AuditLogModelFromDomain creates a new persistence model from a domain audit Log.
func AuditLogModelFromDomain(l *audit.Log) *AuditLogModel {
	return &AuditLogModel{
		ID:           l.ID,
		UserID:       l.UserID,
		Action:       l.Action.String(),
		EntityType:   l.EntityType,
		EntityID:     l.EntityID,
		Description:  l.Description,
		OldValueJSON: jsonString(l.OldValue),
		NewValueJSON: jsonString(l.NewValue),
		IPAddress:    l.IPAddress,
		UserAgent:    l.UserAgent,
		RequestID:    l.RequestID,
		CreatedAt:    l.CreatedAt,
	}
}

func jsonString(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	s := string(raw)
	return &s
}

func rawJSON(s *string) json.RawMessage {
	if s == nil || *s == "" {
		return nil
	}
	return json.RawMessage(*s)
}
