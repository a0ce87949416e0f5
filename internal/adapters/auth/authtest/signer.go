// Package authtest mints provider-style tokens for tests.
package authtest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/philly/chirp/internal/adapters/auth"
	"github.com/stretchr/testify/require"
)

const (
	// Issuer is the issuer tokens are minted with.
	Issuer = "https://clerk.chirp.test"
	keyID  = "test-key"
)

// Signer holds a private key and the matching public key set.
type Signer struct {
	key    jwk.Key
	public jwk.Set
}

// NewSigner generates a fresh P-256 key.
func NewSigner(t testing.TB) *Signer {
	t.Helper()

	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	key, err := jwk.Import(raw)
	require.NoError(t, err)
	require.NoError(t, key.Set(jwk.KeyIDKey, keyID))
	require.NoError(t, key.Set(jwk.AlgorithmKey, jwa.ES256()))

	pub, err := jwk.PublicKeyOf(key)
	require.NoError(t, err)

	set := jwk.NewSet()
	require.NoError(t, set.AddKey(pub))

	return &Signer{key: key, public: set}
}

// KeySet is a key source verifying this signer's tokens.
func (s *Signer) KeySet() auth.StaticKeySet {
	return auth.StaticKeySet{Set: s.public}
}

// Verifier returns a verifier trusting this signer under Issuer.
func (s *Signer) Verifier() *auth.Verifier {
	return auth.NewVerifier(s.KeySet(), Issuer)
}

// Token signs a token for identity expiring after ttl. A negative ttl yields an expired token.
func (s *Signer) Token(t testing.TB, identity auth.Identity, ttl time.Duration) string {
	return s.TokenWithIssuer(t, identity, Issuer, ttl)
}

// TokenWithIssuer signs a token with an explicit issuer.
func (s *Signer) TokenWithIssuer(t testing.TB, identity auth.Identity, issuer string, ttl time.Duration) string {
	t.Helper()

	now := time.Now()
	builder := jwt.NewBuilder().
		Issuer(issuer).
		IssuedAt(now.Add(-time.Minute)).
		Expiration(now.Add(ttl))
	if identity.Subject != "" {
		builder = builder.Subject(identity.Subject)
	}
	if identity.Username != "" {
		builder = builder.Claim(auth.ClaimUsername, identity.Username)
	}
	if identity.ImageURL != "" {
		builder = builder.Claim(auth.ClaimImageURL, identity.ImageURL)
	}

	token, err := builder.Build()
	require.NoError(t, err)

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), s.key))
	require.NoError(t, err)
	return string(signed)
}
