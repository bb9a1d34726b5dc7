package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
)

func (r *Repository) getDispositions(ctx context.Context, q querier, letterID int64) ([]domain.Disposition, error) {
	query, args, err := r.sb.
		Select("id", "letter_id", "disposition_to", "instructions", "deadline", "created_by", "created_at").
		From("dispositions").
		Where(sq.Eq{"letter_id": letterID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dispositions := make([]domain.Disposition, 0)
	for rows.Next() {
		var d domain.Disposition
		dst := []any{&d.ID, &d.LetterID, &d.DispositionTo, &d.Instructions, &d.Deadline, &d.CreatedBy, &d.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		dispositions = append(dispositions, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return dispositions, nil
}

func (r *Repository) GetDispositionsByLetterID(ctx context.Context, letterID int64) ([]domain.Disposition, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return r.getDispositions(ctx, r.dbpool, letterID)
}

func (r *Repository) insertDisposition(ctx context.Context, q querier, d *domain.Disposition) error {
	b := r.sb.Insert("dispositions").
		Columns("letter_id", "disposition_to", "instructions", "deadline", "created_by", "created_at").
		Values(d.LetterID, d.DispositionTo, d.Instructions, d.Deadline, nullInt64(d.CreatedBy), d.CreatedAt)

	id, err := r.insert(ctx, q, b)
	if err != nil {
		return err
	}
	d.ID = id

	return nil
}

// CreateDisposition stores d and moves its letter to the disposisi status in the same transaction.
// It returns sql.ErrNoRows when the letter does not exist.
func (r *Repository) CreateDisposition(ctx context.Context, d *domain.Disposition) error {
	ctx, cancel := r.txContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	d.CreatedAt = now()

	b := r.sb.Update("letters").
		Set("status", string(domain.StatusDisposisi)).
		Set("updated_at", d.CreatedAt).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{"id": d.LetterID})
	if err := exec(ctx, tx, b); err != nil {
		return err
	}

	if err := r.insertDisposition(ctx, tx, d); err != nil {
		return err
	}

	return tx.Commit()
}
