package seeder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/philly/chirp/internal/platform/logger"
	"github.com/philly/chirp/internal/platform/postgres"
	"github.com/philly/chirp/internal/platform/seeder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	commits   int
	rollbacks int
}

type fakeTransaction struct{ parent *fakeTx }

func (f *fakeTransaction) Commit(ctx context.Context) error   { f.parent.commits++; return nil }
func (f *fakeTransaction) Rollback(ctx context.Context) error { f.parent.rollbacks++; return nil }
func (f *fakeTransaction) Tx() pgx.Tx                         { return nil }

type fakeTxManager struct{ state *fakeTx }

func (f *fakeTxManager) BeginTx(ctx context.Context) (postgres.Transaction, error) {
	return &fakeTransaction{parent: f.state}, nil
}

type stubSeeder struct {
	name string
	err  error
	ran  *[]string
}

func (s stubSeeder) Name() string { return s.name }

func (s stubSeeder) Seed(ctx context.Context, tx pgx.Tx) error {
	*s.ran = append(*s.ran, s.name)
	return s.err
}

func TestOrchestratorRunsSeedersInOrder(t *testing.T) {
	var ran []string
	state := &fakeTx{}
	o := seeder.NewOrchestrator(logger.Nop{}, &fakeTxManager{state: state}, []seeder.Seeder{
		stubSeeder{name: "users", ran: &ran},
		stubSeeder{name: "posts", ran: &ran},
	})

	require.NoError(t, o.RunAll(context.Background()))
	assert.Equal(t, []string{"users", "posts"}, ran)
	assert.Equal(t, 2, state.commits)
	assert.Zero(t, state.rollbacks)
}

func TestOrchestratorStopsAtFirstFailure(t *testing.T) {
	var ran []string
	state := &fakeTx{}
	boom := errors.New("duplicate key")
	o := seeder.NewOrchestrator(logger.Nop{}, &fakeTxManager{state: state}, []seeder.Seeder{
		stubSeeder{name: "users", ran: &ran, err: boom},
		stubSeeder{name: "posts", ran: &ran},
	})

	err := o.RunAll(context.Background())

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "seeder users failed")
	assert.Equal(t, []string{"users"}, ran)
	assert.Equal(t, 1, state.rollbacks)
	assert.Zero(t, state.commits)
}
