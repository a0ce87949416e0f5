package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx so repositories
// run unchanged inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row
}

// BaseRepository holds what every repository needs: a querier and a
// statement builder configured for $n placeholders.
type BaseRepository struct {
	DB Querier
	SB sq.StatementBuilderType
}

// NewBaseRepository creates a base repository backed by the pool.
func NewBaseRepository(db *pgxpool.Pool) BaseRepository {
	return NewBaseRepositoryFor(db)
}

// NewBaseRepositoryFor creates a base repository over any querier.
func NewBaseRepositoryFor(db Querier) BaseRepository {
	return BaseRepository{
		DB: db,
		SB: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// WithTx returns a copy bound to tx.
func (b BaseRepository) WithTx(tx pgx.Tx) BaseRepository {
	return BaseRepository{DB: tx, SB: b.SB}
}

// QueryRowBuilder renders a squirrel builder and runs it as a single-row query.
func (b BaseRepository) QueryRowBuilder(ctx context.Context, builder sq.Sqlizer) (pgx.Row, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return b.DB.QueryRow(ctx, query, args...), nil
}

// QueryBuilder renders a squirrel builder and runs it.
func (b BaseRepository) QueryBuilder(ctx context.Context, builder sq.Sqlizer) (pgx.Rows, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return b.DB.Query(ctx, query, args...)
}
