package server

import (
	"github.com/philly/chirp/internal/adapters/auth"
	"github.com/philly/chirp/internal/adapters/rest"
	"github.com/philly/chirp/internal/platform/eventbus"
	"github.com/philly/chirp/internal/platform/logger"
	"github.com/philly/chirp/internal/rpc"
	"github.com/philly/chirp/internal/web"
)

// version is overridden at build time with -ldflags.
var version = "dev"

// provideVersion provides the application version
func provideVersion() rest.Version {
	return rest.Version(version)
}

// provideLoggerConfig creates logger config from server config
func provideLoggerConfig(config Config) logger.Config {
	return logger.Config{
		Environment: config.Environment,
		LogLevel:    config.LogLevel,
	}
}

func provideAuthConfig(config Config) auth.Config {
	return auth.Config{
		JWKSEndpoint: config.JWKSEndpoint,
		Issuer:       config.JWTIssuer,
	}
}

func provideWebConfig(config Config) web.Config {
	return web.Config{
		SignInURL:       config.SignInURL,
		SessionSecret:   config.SessionSecret,
		SecureCookies:   config.IsProduction(),
		FeedCacheTTL:    config.FeedCacheTTL,
		FeedRenderWait:  config.FeedRenderWait,
		ComposerIdleTTL: config.ComposerIdleTTL,
	}
}

func provideAPIBaseURL(config Config) rpc.BaseURL {
	return rpc.BaseURL(config.APIBaseURL)
}

// provideNoEvents is used when posts are created by a remote API tier.
func provideNoEvents() eventbus.Subscriber {
	return nil
}

// provideWebApp creates the web tier and its cleanup function
func provideWebApp(
	cfg web.Config,
	api rpc.PostsAPI,
	verifier *auth.Verifier,
	events eventbus.Subscriber,
	log logger.Logger,
) (*web.App, func(), error) {
	app, err := web.NewApp(cfg, api, verifier, events, log)
	if err != nil {
		return nil, nil, err
	}
	return app, app.Close, nil
}
