package postgres

import (
	"github.com/google/wire"
	postsports "github.com/philly/chirp/internal/posts/ports"
	usersports "github.com/philly/chirp/internal/users/ports"
)

// ProviderSet is the wire provider set for postgres repositories
var ProviderSet = wire.NewSet(
	NewUserRepository,
	wire.Bind(new(usersports.UserRepository), new(*UserRepository)),
	NewPostRepository,
	wire.Bind(new(postsports.PostRepository), new(*PostRepository)),
)
