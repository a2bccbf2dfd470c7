package identity

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the authenticated caller attached to a request
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

type identityKey struct{}

// WithIdentity returns a context carrying the identity
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored in ctx, if any
func FromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Can reports whether the identity's role grants the permission
func (i Identity) Can(p Permission) bool {
	return i.Role.Can(p)
}
