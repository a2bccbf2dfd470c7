// Package audit models the append-only trail of user-initiated mutations.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/shared"
)

// Log is a single audit record. It is written once and never modified.
type Log struct {
	ID          uuid.UUID
	UserID      *uuid.UUID
	Action      Action
	EntityType  string
	EntityID    string
	Description string
	OldValue    json.RawMessage
	NewValue    json.RawMessage
	IPAddress   string
	UserAgent   string
	RequestID   string
	CreatedAt   time.Time
}

// Entry is the input for a new audit record
type Entry struct {
	UserID      *uuid.UUID
	Action      Action
	EntityID    string
	Description string
	OldValue    any
	NewValue    any
	IPAddress   string
	UserAgent   string
	RequestID   string
}

// NewLog builds an audit record from an entry, snapshotting old/new values as JSON
func NewLog(e Entry) (*Log, error) {
	if err := e.Action.Validate(); err != nil {
		return nil, err
	}
	oldValue, err := snapshot(e.OldValue)
	if err != nil {
		return nil, err
	}
	newValue, err := snapshot(e.NewValue)
	if err != nil {
		return nil, err
	}

	return &Log{
		ID:          uuid.New(),
		UserID:      e.UserID,
		Action:      e.Action,
		EntityType:  e.Action.Entity,
		EntityID:    e.EntityID,
		Description: truncate(e.Description, 500),
		OldValue:    oldValue,
		NewValue:    newValue,
		IPAddress:   truncate(e.IPAddress, 45),
		UserAgent:   truncate(e.UserAgent, 500),
		RequestID:   e.RequestID,
		CreatedAt:   shared.Now(),
	}, nil
}

func snapshot(v any) (json.RawMessage, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return val, nil
	case []byte:
		return json.RawMessage(val), nil
	}
	return json.Marshal(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Repository persists audit records. It is append-only.
type Repository interface {
	Create(ctx context.Context, log *Log) error
	FindByID(ctx context.Context, id uuid.UUID) (*Log, error)
	FindAll(ctx context.Context, filter Filter) ([]*Log, int64, error)
}

// Filter narrows audit log listings
type Filter struct {
	shared.Filter
	shared.DateRange

	UserID     *uuid.UUID
	EntityType string
	EntityID   string
	Action     string
}
