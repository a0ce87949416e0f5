package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

var (
	ErrMissingToken      = errors.New("missing authentication token")
	ErrInvalidToken      = errors.New("invalid authentication token")
	ErrTokenExpired      = errors.New("token has expired")
	ErrMissingSubject    = errors.New("missing subject in token")
	ErrKeySetUnavailable = errors.New("signing keys unavailable")
)

// Claim names read from provider tokens.
const (
	ClaimSubject  = "sub"
	ClaimUsername = "username"
	ClaimImageURL = "image_url"
)

// Identity is what the identity provider asserts about the caller.
type Identity struct {
	Subject  string
	Username string
	ImageURL string
}

// KeySetSource supplies the keys tokens are verified against.
type KeySetSource interface {
	KeySet(ctx context.Context) (jwk.Set, error)
}

// JWKSSource serves a remote JWKS through jwx's auto-refreshing cache.
type JWKSSource struct {
	endpoint string
	cache    *jwk.Cache
}

// NewJWKSSource registers the endpoint and performs the initial fetch so a
// misconfigured endpoint fails at startup.
func NewJWKSSource(ctx context.Context, endpoint string) (*JWKSSource, error) {
	cache, err := jwk.NewCache(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	if err := cache.Register(ctx, endpoint); err != nil {
		return nil, fmt.Errorf("failed to register JWKS URL: %w", err)
	}

	if _, err := cache.Lookup(ctx, endpoint); err != nil {
		return nil, fmt.Errorf("failed to fetch initial JWKS: %w", err)
	}

	return &JWKSSource{endpoint: endpoint, cache: cache}, nil
}

func (s *JWKSSource) KeySet(ctx context.Context) (jwk.Set, error) {
	return s.cache.Lookup(ctx, s.endpoint)
}

// StaticKeySet serves a fixed key set.
type StaticKeySet struct {
	Set jwk.Set
}

func (s StaticKeySet) KeySet(context.Context) (jwk.Set, error) {
	if s.Set == nil {
		return nil, errors.New("no key set configured")
	}
	return s.Set, nil
}

// Verifier validates provider-issued JWTs and extracts the identity.
type Verifier struct {
	keys   KeySetSource
	issuer string
}

func NewVerifier(keys KeySetSource, issuer string) *Verifier {
	return &Verifier{keys: keys, issuer: issuer}
}

// Verify checks signature, expiry and issuer. Errors wrap ErrMissingToken,
// ErrTokenExpired, ErrInvalidToken, ErrMissingSubject or ErrKeySetUnavailable.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, ErrMissingToken
	}

	keySet, err := v.keys.KeySet(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrKeySetUnavailable, err)
	}

	token, err := jwt.ParseString(
		tokenString,
		jwt.WithKeySet(keySet),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
	)
	if err != nil {
		if isExpired(err) {
			return Identity{}, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	var identity Identity
	if err := token.Get(ClaimSubject, &identity.Subject); err != nil || identity.Subject == "" {
		return Identity{}, ErrMissingSubject
	}

	// optional profile claims
	_ = token.Get(ClaimUsername, &identity.Username)
	_ = token.Get(ClaimImageURL, &identity.ImageURL)

	return identity, nil
}

func isExpired(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, `"exp" not satisfied`) ||
		strings.Contains(msg, "exp not satisfied") ||
		strings.Contains(msg, "expired")
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}
