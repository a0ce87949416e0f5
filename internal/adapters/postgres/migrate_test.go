package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "postgres://u:p@localhost:5432/chirp?sslmode=disable", want: "pgx5://u:p@localhost:5432/chirp?sslmode=disable"},
		{in: "postgresql://localhost/chirp", want: "pgx5://localhost/chirp"},
		{in: "pgx5://localhost/chirp", want: "pgx5://localhost/chirp"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, migrateURL(tt.in))
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationsFS, "migrations/*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}

func TestMigrateRejectsUnknownDirection(t *testing.T) {
	err := Migrate("pgx5://localhost:1/none", Direction("sideways"))
	assert.Error(t, err)
}
