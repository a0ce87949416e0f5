package auth

import (
	"context"

	"github.com/google/wire"
)

// Config carries the identity provider settings.
type Config struct {
	JWKSEndpoint string
	Issuer       string
}

// ProvideJWKSSource creates the remote key source from Config.
func ProvideJWKSSource(ctx context.Context, cfg Config) (*JWKSSource, error) {
	return NewJWKSSource(ctx, cfg.JWKSEndpoint)
}

// ProvideVerifier creates the token verifier from Config.
func ProvideVerifier(keys KeySetSource, cfg Config) *Verifier {
	return NewVerifier(keys, cfg.Issuer)
}

// ProviderSet is the wire provider set for token verification
var ProviderSet = wire.NewSet(
	ProvideJWKSSource,
	wire.Bind(new(KeySetSource), new(*JWKSSource)),
	ProvideVerifier,
)
