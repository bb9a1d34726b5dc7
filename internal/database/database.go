package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/disnaker-asahan/letter-manager/backend/internal/config"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	DialectSQLite   Dialect = "sqlite"
)

//go:embed migrations
var migrations embed.FS

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "pgx", "postgres":
		return DialectPostgres, nil
	case "mysql":
		return DialectMySQL, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

func driverName(d Dialect) string {
	switch d {
	case DialectPostgres:
		return "pgx"
	case DialectMySQL:
		return "mysql"
	default:
		return "sqlite"
	}
}

// driverDSN adjusts dsn for the driver. MySQL timestamps must scan into time.Time as UTC.
func driverDSN(d Dialect, dsn string) (string, error) {
	if d != DialectMySQL {
		return dsn, nil
	}

	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	mc.ParseTime = true
	mc.Loc = time.UTC

	return mc.FormatDSN(), nil
}

// Open connects to the configured database and verifies the connection.
func Open(cfg *config.Config) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(cfg.Database.Driver)
	if err != nil {
		return nil, "", err
	}

	dsn, err := driverDSN(dialect, cfg.Database.DSN)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(driverName(dialect), dsn)
	if err != nil {
		return nil, "", err
	}

	if dialect == DialectSQLite {
		// a single connection keeps in-memory databases alive and serialises writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxIdleTime(0)
	} else {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, "", err
	}

	return db, dialect, nil
}

func newProvider(db *sql.DB, dialect Dialect) (*goose.Provider, error) {
	var gooseDialect goose.Dialect
	switch dialect {
	case DialectPostgres:
		gooseDialect = goose.DialectPostgres
	case DialectMySQL:
		gooseDialect = goose.DialectMySQL
	case DialectSQLite:
		gooseDialect = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	fsys, err := fs.Sub(migrations, "migrations/"+string(dialect))
	if err != nil {
		return nil, err
	}

	return goose.NewProvider(gooseDialect, db, fsys)
}

// Migrate applies every pending migration and returns the versions it applied.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) ([]int64, error) {
	provider, err := newProvider(db, dialect)
	if err != nil {
		return nil, err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return nil, err
	}

	applied := make([]int64, 0, len(results))
	for _, res := range results {
		applied = append(applied, res.Source.Version)
	}

	return applied, nil
}

// Rollback reverts the most recently applied migration.
func Rollback(ctx context.Context, db *sql.DB, dialect Dialect) (int64, error) {
	provider, err := newProvider(db, dialect)
	if err != nil {
		return 0, err
	}

	res, err := provider.Down(ctx)
	if err != nil {
		return 0, err
	}

	return res.Source.Version, nil
}

type MigrationStatus struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

func Status(ctx context.Context, db *sql.DB, dialect Dialect) ([]MigrationStatus, error) {
	provider, err := newProvider(db, dialect)
	if err != nil {
		return nil, err
	}

	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]MigrationStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, MigrationStatus{
			Version:   s.Source.Version,
			Path:      s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}

	return out, nil
}
