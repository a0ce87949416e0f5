package main

import (
	"fmt"

	"github.com/philly/chirp/internal/adapters/postgres"
	"github.com/philly/chirp/internal/platform/logger"
	"github.com/philly/chirp/internal/server"
	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the API and web tiers",
		Description: `Serves the RPC API, health probes, metrics and the web pages.
		With --web-only the database is not used and the web tier calls the
		API tier at API_BASE_URL.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "web-only",
				Usage:   "Serve only the web tier against a remote API tier",
				EnvVars: []string{"CHIRP_WEB_ONLY"},
			},
		},
		Action: func(ctx *cli.Context) error {
			initialize := server.InitializeApp
			if ctx.Bool("web-only") {
				initialize = server.InitializeWebApp
			}

			app, cleanup, err := initialize(ctx.Context)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			defer cleanup()

			return app.Run(ctx.Context)
		},
	}
}

func migrateCmd() *cli.Command {
	run := func(direction postgres.Direction) cli.ActionFunc {
		return func(ctx *cli.Context) error {
			bootstrap := logger.NewBootstrapLogger()
			config, err := server.LoadConfig(bootstrap)
			if err != nil {
				return err
			}
			bootstrap.Info(ctx.Context, "running migrations", "direction", string(direction))
			if err := postgres.Migrate(config.DatabaseURL, direction); err != nil {
				return err
			}
			bootstrap.Info(ctx.Context, "migrations complete", "direction", string(direction))
			return nil
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "Run database migrations",
		Subcommands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "Apply all pending migrations",
				Action: run(postgres.DirectionUp),
			},
			{
				Name:   "down",
				Usage:  "Revert the most recent migration",
				Action: run(postgres.DirectionDown),
			},
		},
	}
}

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Insert demo authors and posts",
		Action: func(ctx *cli.Context) error {
			orchestrator, cleanup, err := server.InitializeSeeder(ctx.Context)
			if err != nil {
				return fmt.Errorf("initialize seeder: %w", err)
			}
			defer cleanup()

			return orchestrator.RunAll(ctx.Context)
		},
	}
}
