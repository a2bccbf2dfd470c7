package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *User) error

	// The writes below touch only their own columns so concurrent changes to
	// the same user (a login racing a disable) cannot overwrite each other.
	UpdatePassword(ctx context.Context, user *User) error
	UpdateStatus(ctx context.Context, user *User) error
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail looks up a user by normalized email
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	FindAll(ctx context.Context, filter UserFilter) ([]*User, int64, error)
	Count(ctx context.Context) (int64, error)
}

// UserFilter contains filter options for querying users
type UserFilter struct {
	shared.Filter

	// Search matches email or full name
	Keyword string
	Role    *Role
	Active  *bool
}
