package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/philly/chirp/internal/adapters/auth"
	"github.com/philly/chirp/internal/adapters/auth/authtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifierAcceptsValidToken(t *testing.T) {
	signer := authtest.NewSigner(t)
	want := auth.Identity{Subject: "user_2abc", Username: "philly", ImageURL: "https://img.example/p.png"}

	got, err := signer.Verifier().Verify(context.Background(), signer.Token(t, want, time.Hour))

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestVerifierOptionalClaims(t *testing.T) {
	signer := authtest.NewSigner(t)

	got, err := signer.Verifier().Verify(context.Background(), signer.Token(t, auth.Identity{Subject: "user_2abc"}, time.Hour))

	require.NoError(t, err)
	assert.Equal(t, auth.Identity{Subject: "user_2abc"}, got)
}

func TestVerifierRejections(t *testing.T) {
	signer := authtest.NewSigner(t)
	other := authtest.NewSigner(t)
	identity := auth.Identity{Subject: "user_2abc"}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty", token: "", wantErr: auth.ErrMissingToken},
		{name: "garbage", token: "not.a.jwt", wantErr: auth.ErrInvalidToken},
		{name: "expired", token: signer.Token(t, identity, -time.Hour), wantErr: auth.ErrTokenExpired},
		{name: "wrong issuer", token: signer.TokenWithIssuer(t, identity, "https://evil.test", time.Hour), wantErr: auth.ErrInvalidToken},
		{name: "foreign key", token: other.Token(t, identity, time.Hour), wantErr: auth.ErrInvalidToken},
		{name: "no subject", token: signer.Token(t, auth.Identity{Username: "anon"}, time.Hour), wantErr: auth.ErrMissingSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := signer.Verifier().Verify(context.Background(), tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

type failingKeys struct{}

func (failingKeys) KeySet(context.Context) (jwk.Set, error) {
	return nil, errors.New("jwks endpoint unreachable")
}

func TestVerifierKeySetUnavailable(t *testing.T) {
	signer := authtest.NewSigner(t)
	v := auth.NewVerifier(failingKeys{}, authtest.Issuer)

	_, err := v.Verify(context.Background(), signer.Token(t, auth.Identity{Subject: "user_2abc"}, time.Hour))

	assert.ErrorIs(t, err, auth.ErrKeySetUnavailable)
}

func TestBearerToken(t *testing.T) {
	tok, err := auth.BearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	_, err = auth.BearerToken("")
	assert.ErrorIs(t, err, auth.ErrMissingToken)

	_, err = auth.BearerToken("Basic dXNlcjpwYXNz")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
