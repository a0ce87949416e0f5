package seeder

import (
	"github.com/google/wire"
	"github.com/philly/chirp/internal/platform/seeder"
)

// ProvideSeeders lists the seeders in the order they run.
func ProvideSeeders(posts *PostsSeeder) []seeder.Seeder {
	return []seeder.Seeder{posts}
}

// ProviderSet is the wire provider set for demo data
var ProviderSet = wire.NewSet(
	NewPostsSeeder,
	ProvideSeeders,
)
