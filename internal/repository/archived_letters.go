package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
)

var archivedLetterColumns = []string{
	"id", "original_id", "type", "subject", "sender", "recipient", "letter_number", "priority", "status", "content",
	"attachment", "approval_notes", "approved_at", "approved_by", "created_by", "created_at", "dispositions",
	"archived_at", "archived_by",
}

func scanArchivedLetter(row interface{ Scan(...any) error }) (*domain.ArchivedLetter, error) {
	a := &domain.ArchivedLetter{}
	var dispositions string
	dst := []any{
		&a.ID, &a.OriginalID, &a.Type, &a.Subject, &a.Sender, &a.Recipient, &a.LetterNumber, &a.Priority, &a.Status, &a.Content,
		&a.Attachment, &a.ApprovalNotes, &a.ApprovedAt, &a.ApprovedBy, &a.CreatedBy, &a.CreatedAt, &dispositions,
		&a.ArchivedAt, &a.ArchivedBy,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	a.Dispositions = make([]domain.Disposition, 0)
	if dispositions != "" {
		if err := json.Unmarshal([]byte(dispositions), &a.Dispositions); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (r *Repository) getArchivedLetter(ctx context.Context, q querier, id int64) (*domain.ArchivedLetter, error) {
	query, args, err := r.sb.Select(archivedLetterColumns...).From("archived_letters").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	return scanArchivedLetter(q.QueryRowContext(ctx, query, args...))
}

func (r *Repository) GetArchivedLetter(ctx context.Context, id int64) (*domain.ArchivedLetter, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return r.getArchivedLetter(ctx, r.dbpool, id)
}

// ListArchivedLetters returns archive entries matching f, most recently archived first.
func (r *Repository) ListArchivedLetters(ctx context.Context, f domain.ArchivedLetterFilter) ([]*domain.ArchivedLetter, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	b := r.sb.Select(archivedLetterColumns...).From("archived_letters").OrderBy("archived_at DESC", "id DESC")
	if f.Type != "" {
		b = b.Where(sq.Eq{"type": string(f.Type)})
	}
	if f.Year > 0 {
		from := time.Date(f.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		b = b.Where(sq.GtOrEq{"created_at": from}).Where(sq.Lt{"created_at": from.AddDate(1, 0, 0)})
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		b = b.Where(substringMatch([]string{"subject", "sender", "recipient", "letter_number"}, q))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	archived := make([]*domain.ArchivedLetter, 0)
	for rows.Next() {
		a, err := scanArchivedLetter(rows)
		if err != nil {
			return nil, err
		}
		archived = append(archived, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return archived, nil
}

func (r *Repository) CountArchivedLetters(ctx context.Context) (int, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query, args, err := r.sb.Select("COUNT(*)").From("archived_letters").ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// ArchiveLetter moves a letter and its dispositions into the archive. The letter no longer exists
// in the active set once this returns without error.
func (r *Repository) ArchiveLetter(ctx context.Context, letterID int64, by int64) (*domain.ArchivedLetter, error) {
	ctx, cancel := r.txContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	l, err := r.getLetter(ctx, tx, letterID)
	if err != nil {
		return nil, err
	}

	dispositions, err := r.getDispositions(ctx, tx, letterID)
	if err != nil {
		return nil, err
	}

	a := domain.NewArchivedLetter(l, dispositions, by, now())

	encoded, err := json.Marshal(a.Dispositions)
	if err != nil {
		return nil, err
	}

	b := r.sb.Insert("archived_letters").
		Columns(
			"original_id", "type", "subject", "sender", "recipient", "letter_number", "priority", "status", "content",
			"attachment", "approval_notes", "approved_at", "approved_by", "created_by", "created_at", "dispositions",
			"archived_at", "archived_by",
		).
		Values(
			a.OriginalID, string(a.Type), a.Subject, a.Sender, a.Recipient, a.LetterNumber, string(a.Priority), string(a.Status), a.Content,
			a.Attachment, a.ApprovalNotes, nullTime(a.ApprovedAt), nullInt64(a.ApprovedBy), nullInt64(a.CreatedBy), a.CreatedAt, string(encoded),
			a.ArchivedAt, nullInt64(a.ArchivedBy),
		)

	id, err := r.insert(ctx, tx, b)
	if err != nil {
		return nil, err
	}
	a.ID = id

	if err := r.deleteLetter(ctx, tx, letterID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreArchivedLetter moves an archive entry back into the active set under a new id.
func (r *Repository) RestoreArchivedLetter(ctx context.Context, id int64) (*domain.Letter, error) {
	ctx, cancel := r.txContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	a, err := r.getArchivedLetter(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	l := a.Restore(now())
	l.Version = 1

	b := r.sb.Insert("letters").
		Columns(
			"type", "subject", "sender", "recipient", "letter_number", "priority", "status", "content",
			"attachment", "approval_notes", "approved_at", "approved_by", "created_by", "created_at", "updated_at", "version",
		).
		Values(
			string(l.Type), l.Subject, l.Sender, l.Recipient, l.LetterNumber, string(l.Priority), string(l.Status), l.Content,
			l.Attachment, l.ApprovalNotes, nullTime(l.ApprovedAt), nullInt64(l.ApprovedBy), nullInt64(l.CreatedBy), l.CreatedAt, l.UpdatedAt, l.Version,
		)

	letterID, err := r.insert(ctx, tx, b)
	if err != nil {
		return nil, err
	}
	l.ID = letterID

	for i := range l.Dispositions {
		l.Dispositions[i].LetterID = letterID
		if err := r.insertDisposition(ctx, tx, &l.Dispositions[i]); err != nil {
			return nil, err
		}
	}

	if err := exec(ctx, tx, r.sb.Delete("archived_letters").Where(sq.Eq{"id": id})); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return l, nil
}

func (r *Repository) DeleteArchivedLetter(ctx context.Context, id int64) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return exec(ctx, r.dbpool, r.sb.Delete("archived_letters").Where(sq.Eq{"id": id}))
}
