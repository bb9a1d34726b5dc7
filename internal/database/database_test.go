package database

import (
	"context"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disnaker-asahan/letter-manager/backend/internal/config"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = ":memory:"
	cfg.Database.ConnectTimeout = 5

	return cfg
}

func TestDialectFor(t *testing.T) {
	for driver, want := range map[string]Dialect{
		"pgx":      DialectPostgres,
		"postgres": DialectPostgres,
		"mysql":    DialectMySQL,
		"sqlite":   DialectSQLite,
	} {
		got, err := DialectFor(driver)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := DialectFor("oracle")
	assert.Error(t, err)
}

func TestDriverDSN(t *testing.T) {
	dsn, err := driverDSN(DialectMySQL, "letters:secret@tcp(db:3306)/letters?charset=utf8mb4")
	require.NoError(t, err)

	mc, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, mc.ParseTime)
	assert.Equal(t, time.UTC, mc.Loc)
	assert.Equal(t, "letters", mc.DBName)
	assert.Equal(t, "db:3306", mc.Addr)
	assert.Contains(t, dsn, "charset=utf8mb4")

	_, err = driverDSN(DialectMySQL, "not a dsn")
	assert.Error(t, err)

	pg := "postgres://letters:secret@db:5432/letters?sslmode=disable"
	dsn, err = driverDSN(DialectPostgres, pg)
	require.NoError(t, err)
	assert.Equal(t, pg, dsn)
}

func TestMigrateStatusRollback(t *testing.T) {
	ctx := context.Background()

	db, dialect, err := Open(memoryConfig(t))
	require.NoError(t, err)
	defer db.Close()
	require.Equal(t, DialectSQLite, dialect)

	applied, err := Migrate(ctx, db, dialect)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, applied)

	// a second run is a no-op
	applied, err = Migrate(ctx, db, dialect)
	require.NoError(t, err)
	assert.Empty(t, applied)

	statuses, err := Status(ctx, db, dialect)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].Applied)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM letters").Scan(&count))
	assert.Zero(t, count)

	version, err := Rollback(ctx, db, dialect)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	_, err = db.ExecContext(ctx, "SELECT COUNT(*) FROM letters")
	assert.Error(t, err)
}
