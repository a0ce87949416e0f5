package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/philly/chirp/internal/adapters/auth"
	"github.com/philly/chirp/internal/platform/logger"
)

// TokenVerifier validates a raw token.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (auth.Identity, error)
}

// JWTMiddleware authenticates requests carrying an "Authorization: Bearer" token.
type JWTMiddleware struct {
	verifier TokenVerifier
	logger   logger.Logger
}

func NewJWTMiddleware(verifier TokenVerifier, logger logger.Logger) *JWTMiddleware {
	return &JWTMiddleware{verifier: verifier, logger: logger}
}

func (m *JWTMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.BearerToken(r.Header.Get("Authorization"))
		if err != nil {
			if errors.Is(err, auth.ErrMissingToken) {
				WriteJSONError(w, ErrorCodeUnauthorized, err.Error(), http.StatusUnauthorized)
				return
			}
			WriteJSONError(w, ErrorCodeUnauthorized, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		identity, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			m.writeVerifyError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(SetIdentity(r.Context(), identity)))
	})
}

func (m *JWTMiddleware) writeVerifyError(w http.ResponseWriter, r *http.Request, err error) {
	details := map[string]any{"business_code": "NOT_AUTHENTICATED"}
	switch {
	case errors.Is(err, auth.ErrKeySetUnavailable):
		m.logger.Error(r.Context(), "failed to get JWKS", "error", err)
		WriteJSONError(w, ErrorCodeServiceUnavailable, auth.ErrKeySetUnavailable.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, auth.ErrTokenExpired):
		WriteJSONErrorWithDetails(w, ErrorCodeTokenExpired, auth.ErrTokenExpired.Error(), http.StatusUnauthorized, details)
	case errors.Is(err, auth.ErrMissingSubject):
		WriteJSONErrorWithDetails(w, ErrorCodeInvalidToken, auth.ErrMissingSubject.Error(), http.StatusUnauthorized, details)
	default:
		m.logger.Debug(r.Context(), "token rejected", "error", err)
		WriteJSONErrorWithDetails(w, ErrorCodeInvalidToken, auth.ErrInvalidToken.Error(), http.StatusUnauthorized, details)
	}
}
