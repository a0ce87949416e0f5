package server

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/philly/chirp/internal/platform/logger"
	"github.com/philly/chirp/internal/platform/postgres"
)

// ConnectDatabase creates a new database connection pool and returns it with a cleanup function
func ConnectDatabase(ctx context.Context, config Config, log logger.Logger) (*pgxpool.Pool, func(), error) {
	log.Info(ctx, "connecting to database")

	poolCfg := postgres.PoolConfig{
		URL:             config.DatabaseURL,
		MaxConns:        config.DBMaxConns,
		MinConns:        2,
		MaxConnLifetime: 5 * time.Minute,
	}
	log.Debug(ctx, "database pool configuration",
		"max_conns", poolCfg.MaxConns,
		"min_conns", poolCfg.MinConns,
		"max_conn_lifetime", poolCfg.MaxConnLifetime,
	)

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Error(ctx, "failed to connect to database", "error", err)
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info(ctx, "database connection established successfully")

	cleanup := func() {
		log.Info(context.Background(), "closing database connection pool")
		pool.Close()
	}

	return pool, cleanup, nil
}
