package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "chirp",
		Usage: "An emoji-only microblog",
		Description: `Chirp serves the API tier and the web tier from one binary.

		Settings are read from the environment or a .env file, e.g.:

		DATABASE_URL, JWKS_ENDPOINT, JWT_ISSUER, SESSION_SECRET, SIGN_IN_URL
		`,
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			seedCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("chirp: %v", err)
	}
}
