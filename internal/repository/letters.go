package repository

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
)

var letterColumns = []string{
	"id", "type", "subject", "sender", "recipient", "letter_number", "priority", "status", "content",
	"attachment", "approval_notes", "approved_at", "approved_by", "created_by", "created_at", "updated_at", "version",
}

var searchableColumns = []string{"subject", "sender", "recipient", "letter_number", "content"}

func scanLetter(row interface{ Scan(...any) error }) (*domain.Letter, error) {
	l := &domain.Letter{}
	dst := []any{
		&l.ID, &l.Type, &l.Subject, &l.Sender, &l.Recipient, &l.LetterNumber, &l.Priority, &l.Status, &l.Content,
		&l.Attachment, &l.ApprovalNotes, &l.ApprovedAt, &l.ApprovedBy, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt, &l.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	l.Dispositions = make([]domain.Disposition, 0)
	return l, nil
}

// LIKE escape character. Backslash is a string escape in MySQL literals.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// substringMatch builds a case-insensitive OR over columns. q is matched literally.
func substringMatch(columns []string, q string) sq.Or {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"

	or := sq.Or{}
	for _, col := range columns {
		or = append(or, sq.Expr("LOWER("+col+") LIKE ? ESCAPE '!'", pattern))
	}
	return or
}

func (r *Repository) CreateLetter(ctx context.Context, l *domain.Letter) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	l.CreatedAt = now()
	l.UpdatedAt = l.CreatedAt
	l.Version = 1

	b := r.sb.Insert("letters").
		Columns(
			"type", "subject", "sender", "recipient", "letter_number", "priority", "status", "content",
			"attachment", "approval_notes", "created_by", "created_at", "updated_at", "version",
		).
		Values(
			string(l.Type), l.Subject, l.Sender, l.Recipient, l.LetterNumber, string(l.Priority), string(l.Status), l.Content,
			l.Attachment, l.ApprovalNotes, nullInt64(l.CreatedBy), l.CreatedAt, l.UpdatedAt, l.Version,
		)

	id, err := r.insert(ctx, r.dbpool, b)
	if err != nil {
		return err
	}
	l.ID = id
	if l.Dispositions == nil {
		l.Dispositions = make([]domain.Disposition, 0)
	}

	return nil
}

func (r *Repository) getLetter(ctx context.Context, q querier, id int64) (*domain.Letter, error) {
	query, args, err := r.sb.Select(letterColumns...).From("letters").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	return scanLetter(q.QueryRowContext(ctx, query, args...))
}

// GetLetterByID returns the letter with its dispositions attached.
func (r *Repository) GetLetterByID(ctx context.Context, id int64) (*domain.Letter, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	l, err := r.getLetter(ctx, r.dbpool, id)
	if err != nil {
		return nil, err
	}

	dispositions, err := r.getDispositions(ctx, r.dbpool, id)
	if err != nil {
		return nil, err
	}
	l.Dispositions = dispositions

	return l, nil
}

// ListLetters returns the active letters matching f, newest first. Dispositions are not loaded.
func (r *Repository) ListLetters(ctx context.Context, f domain.LetterFilter) ([]*domain.Letter, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	b := r.sb.Select(letterColumns...).From("letters").OrderBy("created_at DESC", "id DESC")
	if f.Type != "" {
		b = b.Where(sq.Eq{"type": string(f.Type)})
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": string(f.Status)})
	}
	if f.Priority != "" {
		b = b.Where(sq.Eq{"priority": string(f.Priority)})
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		b = b.Where(substringMatch(searchableColumns, q))
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

	letters := make([]*domain.Letter, 0)
	for rows.Next() {
		l, err := scanLetter(rows)
		if err != nil {
			return nil, err
		}
		letters = append(letters, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return letters, nil
}

// UpdateLetter writes every mutable column of l, guarded by its version.
func (r *Repository) UpdateLetter(ctx context.Context, l *domain.Letter) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	updatedAt := now()

	b := r.sb.Update("letters").
		Set("type", string(l.Type)).
		Set("subject", l.Subject).
		Set("sender", l.Sender).
		Set("recipient", l.Recipient).
		Set("letter_number", l.LetterNumber).
		Set("priority", string(l.Priority)).
		Set("status", string(l.Status)).
		Set("content", l.Content).
		Set("attachment", l.Attachment).
		Set("approval_notes", l.ApprovalNotes).
		Set("approved_at", nullTime(l.ApprovedAt)).
		Set("approved_by", nullInt64(l.ApprovedBy)).
		Set("updated_at", updatedAt).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{"id": l.ID, "version": l.Version})

	if err := exec(ctx, r.dbpool, b); err != nil {
		return err
	}
	l.UpdatedAt = updatedAt
	l.Version++

	return nil
}

// DeleteLetter removes a letter and its dispositions.
func (r *Repository) DeleteLetter(ctx context.Context, id int64) error {
	ctx, cancel := r.txContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := r.deleteLetter(ctx, tx, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) deleteLetter(ctx context.Context, q querier, id int64) error {
	query, args, err := r.sb.Delete("dispositions").Where(sq.Eq{"letter_id": id}).ToSql()
	if err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return exec(ctx, q, r.sb.Delete("letters").Where(sq.Eq{"id": id}))
}
