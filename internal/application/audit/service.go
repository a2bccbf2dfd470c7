package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/audit"
	"github.com/pdv/backend/internal/domain/shared"
)

// LogFilter holds the query parameters of GET /audit-logs
type LogFilter struct {
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"pageSize" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"orderBy" binding:"omitempty,oneof=created_at action entity_type"`
	OrderDir   string     `form:"orderDir" binding:"omitempty,oneof=asc desc"`
	UserID     string     `form:"userId" binding:"omitempty,uuid"`
	EntityType string     `form:"entityType" binding:"max=50"`
	EntityID   string     `form:"entityId" binding:"max=100"`
	Action     string     `form:"action" binding:"max=100"`
	From       *time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To         *time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
}

// LogResponse is an audit record in API responses
type LogResponse struct {
	ID          uuid.UUID       `json:"id"`
	UserID      *uuid.UUID      `json:"userId"`
	Action      string          `json:"action"`
	EntityType  string          `json:"entityType"`
	EntityID    string          `json:"entityId"`
	Description string          `json:"description"`
	OldValue    json.RawMessage `json:"oldValue,omitempty"`
	NewValue    json.RawMessage `json:"newValue,omitempty"`
	IPAddress   string          `json:"ipAddress"`
	UserAgent   string          `json:"userAgent"`
	RequestID   string          `json:"requestId"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Service reads the audit trail
type Service struct {
	repo audit.Repository
}

// NewService creates a new audit query service
func NewService(repo audit.Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of audit records, newest first
func (s *Service) List(ctx context.Context, f LogFilter) ([]LogResponse, int64, error) {
	filter := audit.Filter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
		},
		DateRange:  shared.DayRange(f.From, f.To),
		EntityType: f.EntityType,
		EntityID:   f.EntityID,
		Action:     f.Action,
	}
	if f.UserID != "" {
		id, err := uuid.Parse(f.UserID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "userId must be a UUID")
		}
		filter.UserID = &id
	}
	filter.Normalize()

	logs, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]LogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, toLogResponse(l))
	}
	return out, total, nil
}

// Get returns one audit record
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*LogResponse, error) {
	log, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toLogResponse(log)
	return &resp, nil
}

func toLogResponse(l *audit.Log) LogResponse {
	return LogResponse{
		ID:          l.ID,
		UserID:      l.UserID,
		Action:      l.Action.String(),
		EntityType:  l.EntityType,
		EntityID:    l.EntityID,
		Description: l.Description,
		OldValue:    l.OldValue,
		NewValue:    l.NewValue,
		IPAddress:   l.IPAddress,
		UserAgent:   l.UserAgent,
		RequestID:   l.RequestID,
		CreatedAt:   l.CreatedAt,
	}
}
