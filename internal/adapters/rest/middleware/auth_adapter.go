package middleware

import (
	"context"
	"net/http"

	"github.com/philly/chirp/internal/platform/apperror"
	"github.com/philly/chirp/internal/platform/logger"
	"github.com/philly/chirp/internal/users/application"
	"github.com/philly/chirp/internal/users/domain"
)

// IdentitySyncer mirrors a verified identity into the users table.
type IdentitySyncer interface {
	SyncIdentity(ctx context.Context, params application.SyncIdentityParams) (*domain.User, error)
}

// AuthAdapter resolves the provider subject set by JWTMiddleware to our
// internal user UUID, creating or refreshing the user row from the token
// claims on the way. Handlers downstream only ever see internal IDs.
//
// This puts a database round trip on every authenticated request; only
// post.create is authenticated, so that is acceptable for now.
type AuthAdapter struct {
	users  IdentitySyncer
	logger logger.Logger
}

// NewAuthAdapter creates a new authentication adapter
func NewAuthAdapter(users IdentitySyncer, logger logger.Logger) *AuthAdapter {
	return &AuthAdapter{
		users:  users,
		logger: logger,
	}
}

// Middleware must be placed after JWTMiddleware.
func (a *AuthAdapter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		identity, ok := GetIdentity(ctx)
		if !ok {
			a.logger.Warn(ctx, "identity not found in context")
			WriteJSONError(w, ErrorCodeUnauthorized, "Authentication required", http.StatusUnauthorized)
			return
		}

		user, err := a.users.SyncIdentity(ctx, application.SyncIdentityParams{
			ExternalID:      identity.Subject,
			Username:        identity.Username,
			ProfileImageURL: identity.ImageURL,
		})
		if err != nil {
			a.logger.Error(ctx, "failed to sync user from identity",
				"subject", identity.Subject,
				"error", err,
			)
			if appErr, ok := apperror.As(err); ok && appErr.HTTPStatus < http.StatusInternalServerError {
				WriteJSONErrorWithDetails(w, string(appErr.Code), appErr.Message, appErr.HTTPStatus,
					map[string]any{"business_code": string(appErr.BusinessCode)})
				return
			}
			WriteJSONError(w, ErrorCodeInternalServerError, "Failed to resolve user profile", http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(SetUserID(ctx, user.ID)))
	})
}
