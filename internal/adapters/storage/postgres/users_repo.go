package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"plant-disease-history/internal/domain/users"
	"plant-disease-history/internal/ports/auth"

	sq "github.com/Masterminds/squirrel"
)

const (
	usersTable    = "users"
	usernameIndex = "ux_users_username"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	query, args, err := psql.
		Insert(usersTable).
		Columns("id", "username", "email", "password_hash", "role", "created_at").
		Values(u.ID, u.Username, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if name, ok := uniqueConstraint(err); ok {
			if name == usernameIndex {
				return users.ErrUsernameTaken
			}
			return users.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return users.User{}, users.ErrNotFound
	}

	query, args, err := r.selectBuilder().
		Where(sq.Expr("lower(email) = lower(?)", email)).
		ToSql()
	if err != nil {
		return users.User{}, fmt.Errorf("build select: %w", err)
	}

	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return users.User{}, users.ErrNotFound
	}
	return u, err
}

func (r *UsersRepo) List(ctx context.Context) ([]users.User, error) {
	query, args, err := r.selectBuilder().OrderBy("seq ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UsersRepo) selectBuilder() sq.SelectBuilder {
	return psql.Select("id", "username", "email", "password_hash", "role", "created_at").From(usersTable)
}

func scanUser(s rowScanner) (users.User, error) {
	var (
		u    users.User
		role string
	)
	if err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		return users.User{}, err
	}
	u.Role = auth.ParseRole(role)
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}
