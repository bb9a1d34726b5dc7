package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/disnaker-asahan/letter-manager/backend/internal/config"
	"github.com/disnaker-asahan/letter-manager/backend/internal/database"
)

type Repository struct {
	cfg     *config.Config
	dbpool  *sql.DB
	dialect database.Dialect
	sb      sq.StatementBuilderType
}

func NewRepository(cfg *config.Config, dbpool *sql.DB, dialect database.Dialect) *Repository {
	var placeholder sq.PlaceholderFormat = sq.Question
	if dialect == database.DialectPostgres {
		placeholder = sq.Dollar
	}

	return &Repository{
		cfg:     cfg,
		dbpool:  dbpool,
		dialect: dialect,
		sb:      sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *Repository) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}

func (r *Repository) txContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
}

// insert runs b and returns the generated id.
func (r *Repository) insert(ctx context.Context, q querier, b sq.InsertBuilder) (int64, error) {
	if r.dialect == database.DialectPostgres {
		query, args, err := b.Suffix("RETURNING id").ToSql()
		if err != nil {
			return 0, err
		}

		var id int64
		if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// exec runs b and reports sql.ErrNoRows when no row was touched.
func exec(ctx context.Context, q querier, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// nullTime and nullInt64 hand optional columns to the driver as plain values.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (r *Repository) Ping(ctx context.Context) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return r.dbpool.PingContext(ctx)
}
