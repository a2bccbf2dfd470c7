package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/shared"
)

// Repository defines persistence for sales
type Repository interface {
	// Create persists the sale and its items, assigning Number
	Create(ctx context.Context, sale *Sale) error

	// UpdateStatus persists status, payment and cancellation fields
	UpdateStatus(ctx context.Context, sale *Sale) error

	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindAll(ctx context.Context, filter Filter) ([]*Sale, int64, error)
}

// Filter contains filter options for listing sales
type Filter struct {
	shared.Filter
	shared.DateRange

	Status    *Status
	CashierID *uuid.UUID
}
