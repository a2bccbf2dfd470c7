package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and timestamps every aggregate shares
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Now is the clock entities stamp themselves with: UTC at the microsecond
// precision PostgreSQL stores, so a value read back compares equal.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// NewBaseEntity returns an entity with a fresh random ID created now
func NewBaseEntity() BaseEntity {
	now := Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch records a modification
func (e *BaseEntity) Touch() {
	e.UpdatedAt = Now()
}
