package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/philly/chirp/internal/adapters/auth"
	"github.com/philly/chirp/internal/platform/logger"
	"github.com/philly/chirp/internal/rpc"
)

// SessionCookie carries the identity provider's session token.
const SessionCookie = "__session"

// TokenVerifier is satisfied by *auth.Verifier.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (auth.Identity, error)
}

// User is the signed-in user as the page sees it.
type User struct {
	ID              string
	Username        string
	ImageURL        string
	ProfileImageURL string
}

// Session is the per-request view of the auth provider state.
type Session struct {
	User       *User
	IsLoaded   bool
	IsSignedIn bool

	identity auth.Identity
	token    string
}

// Actor returns the credentials mutations are sent with.
func (s Session) Actor() rpc.Actor {
	return rpc.Actor{Identity: s.identity, Token: s.token}
}

// SessionResolver reads the session cookie.
type SessionResolver struct {
	verifier TokenVerifier
	logger   logger.Logger
}

func NewSessionResolver(verifier TokenVerifier, logger logger.Logger) *SessionResolver {
	return &SessionResolver{verifier: verifier, logger: logger}
}

// Resolve never fails: a missing or rejected token is a signed-out session,
// and an unreachable key set leaves the session not loaded.
func (r *SessionResolver) Resolve(req *http.Request) Session {
	cookie, err := req.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return Session{IsLoaded: true}
	}

	identity, err := r.verifier.Verify(req.Context(), cookie.Value)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrKeySetUnavailable):
		r.logger.Warn(req.Context(), "session could not be loaded", "error", err)
		return Session{}
	default:
		r.logger.Debug(req.Context(), "session token rejected", "error", err)
		return Session{IsLoaded: true}
	}

	return Session{
		User: &User{
			ID:              identity.Subject,
			Username:        identity.Username,
			ImageURL:        identity.ImageURL,
			ProfileImageURL: identity.ImageURL,
		},
		IsLoaded:   true,
		IsSignedIn: true,
		identity:   identity,
		token:      cookie.Value,
	}
}

// ClearSession expires the session cookie.
func ClearSession(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
