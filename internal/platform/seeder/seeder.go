package seeder

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/philly/chirp/internal/platform/logger"
	"github.com/philly/chirp/internal/platform/postgres"
)

// Seeder writes development data.
type Seeder interface {
	// Name returns the name of the seeder for logging
	Name() string

	// Seed must be idempotent; it runs inside a transaction owned by the orchestrator.
	Seed(ctx context.Context, tx pgx.Tx) error
}

// Orchestrator runs seeders in order, each in its own transaction.
type Orchestrator struct {
	seeders []Seeder
	logger  logger.Logger
	txm     postgres.TransactionManager
}

// NewOrchestrator creates a new seeder orchestrator with all seeders injected
func NewOrchestrator(logger logger.Logger, txm postgres.TransactionManager, seeders []Seeder) *Orchestrator {
	return &Orchestrator{
		seeders: seeders,
		logger:  logger,
		txm:     txm,
	}
}

// RunAll executes all registered seeders in order, stopping at the first failure.
func (o *Orchestrator) RunAll(ctx context.Context) error {
	o.logger.Info(ctx, "starting data seeding", "seeder_count", len(o.seeders))

	for _, s := range o.seeders {
		o.logger.Info(ctx, "running seeder", "seeder", s.Name())

		err := postgres.WithinTx(ctx, o.txm, func(tx pgx.Tx) error {
			return s.Seed(ctx, tx)
		})
		if err != nil {
			o.logger.Error(ctx, "seeder failed", "seeder", s.Name(), "error", err)
			return fmt.Errorf("seeder %s failed: %w", s.Name(), err)
		}

		o.logger.Info(ctx, "seeder completed successfully", "seeder", s.Name())
	}

	o.logger.Info(ctx, "all seeders completed successfully")
	return nil
}
