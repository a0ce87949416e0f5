package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/philly/chirp/internal/adapters/auth"
)

type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's internal ID
	UserIDKey contextKey = "userID"

	// IdentityKey is the context key for the verified token identity
	IdentityKey contextKey = "identity"
)

// GetUserID extracts the internal user ID set by AuthAdapter.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// SetUserID stores the internal user ID.
func SetUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetIdentity extracts the identity set by BearerAuth.
func GetIdentity(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(auth.Identity)
	return identity, ok
}

// SetIdentity stores a verified identity.
func SetIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}
