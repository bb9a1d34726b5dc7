package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
)

var userColumns = []string{"id", "username", "password_hash", "full_name", "email", "department", "role", "created_at", "version"}

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	user := &domain.User{}
	dst := []any{&user.ID, &user.Username, &user.PasswordHash, &user.FullName, &user.Email, &user.Department, &user.Role, &user.CreatedAt, &user.Version}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *Repository) getUser(ctx context.Context, where sq.Sqlizer) (*domain.User, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query, args, err := r.sb.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, err
	}

	return scanUser(r.dbpool.QueryRowContext(ctx, query, args...))
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getUser(ctx, sq.Eq{"id": id})
}

// GetUserByUsernameOrEmail resolves a login identifier, which may be either field.
func (r *Repository) GetUserByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	return r.getUser(ctx, sq.Or{sq.Eq{"username": identifier}, sq.Eq{"email": identifier}})
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, sq.Eq{"email": email})
}

func (r *Repository) listUsers(ctx context.Context, where sq.Sqlizer) ([]*domain.User, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	b := r.sb.Select(userColumns...).From("users").OrderBy("id")
	if where != nil {
		b = b.Where(where)
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

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *Repository) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	return r.listUsers(ctx, nil)
}

func (r *Repository) GetUsersByDepartment(ctx context.Context, department string) ([]*domain.User, error) {
	return r.listUsers(ctx, sq.Eq{"department": department})
}

func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	user.CreatedAt = now()
	user.Version = 1

	b := r.sb.Insert("users").
		Columns("username", "password_hash", "full_name", "email", "department", "role", "created_at", "version").
		Values(user.Username, user.PasswordHash, user.FullName, user.Email, user.Department, string(user.Role), user.CreatedAt, user.Version)

	id, err := r.insert(ctx, r.dbpool, b)
	if err != nil {
		return err
	}
	user.ID = id

	return nil
}

// UpdateUser writes the mutable fields of user. It returns sql.ErrNoRows when the row is gone or
// was modified since user was read.
func (r *Repository) UpdateUser(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	b := r.sb.Update("users").
		Set("password_hash", user.PasswordHash).
		Set("full_name", user.FullName).
		Set("email", user.Email).
		Set("department", user.Department).
		Set("role", string(user.Role)).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{"id": user.ID, "version": user.Version})

	if err := exec(ctx, r.dbpool, b); err != nil {
		return err
	}
	user.Version++

	return nil
}

func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return exec(ctx, r.dbpool, r.sb.Delete("users").Where(sq.Eq{"id": id}))
}

func (r *Repository) CheckEmailIfExists(ctx context.Context, email string) (bool, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query, args, err := r.sb.Select("COUNT(*)").From("users").Where(sq.Eq{"email": email}).ToSql()
	if err != nil {
		return false, err
	}

	var count int
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}

	return count > 0, nil
}
