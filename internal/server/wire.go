//go:build wireinject
// +build wireinject

package server

import (
	"context"

	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/philly/chirp/internal/adapters/auth"
	"github.com/philly/chirp/internal/adapters/postgres"
	"github.com/philly/chirp/internal/adapters/rest"
	"github.com/philly/chirp/internal/adapters/rest/middleware"
	"github.com/philly/chirp/internal/platform/eventbus"
	"github.com/philly/chirp/internal/platform/logger"
	platformpg "github.com/philly/chirp/internal/platform/postgres"
	"github.com/philly/chirp/internal/platform/seeder"
	postsapp "github.com/philly/chirp/internal/posts/application"
	postsseeder "github.com/philly/chirp/internal/posts/seeder"
	"github.com/philly/chirp/internal/rpc"
	usersapp "github.com/philly/chirp/internal/users/application"
)

// InitializeApp creates the full stack: API tier, web tier and database.
func InitializeApp(ctx context.Context) (*App, func(), error) {
	wire.Build(
		// Bootstrap phase
		logger.NewBootstrapLogger,
		LoadServeConfig,

		// Logger configuration
		provideLoggerConfig,
		logger.NewConfiguredLogger,
		wire.Bind(new(logger.Logger), new(*logger.SlogAdapter)),

		// Database
		ConnectDatabase,
		wire.Bind(new(rest.Pinger), new(*pgxpool.Pool)),

		// Repository providers (includes interface binding)
		postgres.ProviderSet,

		// Platform services
		eventbus.ProviderSet,

		// Application services
		postsapp.ProviderSet,
		usersapp.ProviderSet,

		// Auth
		provideAuthConfig,
		auth.ProviderSet,
		middleware.ProviderSet,

		// REST handlers
		rest.ProviderSet,
		provideVersion,

		// Web tier over in-process services
		rpc.LocalSet,
		provideWebConfig,
		provideWebApp,

		NewHTTPServer,
		NewApp,
	)

	return nil, nil, nil
}

// InitializeWebApp creates only the web tier, calling the API tier at API_BASE_URL.
func InitializeWebApp(ctx context.Context) (*App, func(), error) {
	wire.Build(
		logger.NewBootstrapLogger,
		LoadWebConfig,

		provideLoggerConfig,
		logger.NewConfiguredLogger,
		wire.Bind(new(logger.Logger), new(*logger.SlogAdapter)),

		provideAuthConfig,
		auth.ProviderSet,

		provideAPIBaseURL,
		rpc.RemoteSet,
		provideNoEvents,
		provideWebConfig,
		provideWebApp,

		NewWebHTTPServer,
		NewApp,
	)

	return nil, nil, nil
}

// InitializeSeeder creates the demo data orchestrator.
func InitializeSeeder(ctx context.Context) (*seeder.Orchestrator, func(), error) {
	wire.Build(
		logger.NewBootstrapLogger,
		LoadConfig,

		provideLoggerConfig,
		logger.NewConfiguredLogger,
		wire.Bind(new(logger.Logger), new(*logger.SlogAdapter)),

		ConnectDatabase,
		platformpg.NewTransactionManager,

		postsseeder.ProviderSet,
		seeder.NewOrchestrator,
	)

	return nil, nil, nil
}
