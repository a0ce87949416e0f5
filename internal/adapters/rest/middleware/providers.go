package middleware

import (
	"github.com/google/wire"
	"github.com/philly/chirp/internal/adapters/auth"
	"github.com/philly/chirp/internal/users/application"
)

// ProviderSet is the wire provider set for middleware components
var ProviderSet = wire.NewSet(
	NewJWTMiddleware,
	wire.Bind(new(TokenVerifier), new(*auth.Verifier)),
	NewAuthAdapter,
	wire.Bind(new(IdentitySyncer), new(*application.UserService)),
)
