package db

import (
	"io/fs"
	"testing"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	should.Equal(t, "pgx5://u:p@db:5432/kinddraw?sslmode=require", migrateURL("postgres://u:p@db:5432/kinddraw?sslmode=require"))
	should.Equal(t, "pgx5://db/kinddraw", migrateURL("postgresql://db/kinddraw"))
	should.Equal(t, "pgx5://db/kinddraw", migrateURL("pgx5://db/kinddraw"))
}

func TestMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	must.NoError(t, err)
	downs, err := fs.Glob(migrationsFS, "migrations/*.down.sql")
	must.NoError(t, err)

	must.NotEmpty(t, ups)
	should.Equal(t, len(ups), len(downs))
}

func TestOrdersMigrationDeclaresSessionUniqueness(t *testing.T) {
	raw, err := fs.ReadFile(migrationsFS, "migrations/0002_orders.up.sql")
	must.NoError(t, err)
	should.Contains(t, string(raw), "UNIQUE (stripe_session_id)")
	should.Contains(t, string(raw), "FUNCTION campaign_totals(c_id text)")
}
