// Package repository provides pgx-backed implementations of the domain
// repository contracts.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ordercrm/crm-service/internal/core/domain"
)

// DB is the subset of pgxpool.Pool the repositories use. Declared as an
// interface so tests can substitute a pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// PgxUserRepository implements domain.UserRepository using pgx.
type PgxUserRepository struct {
	db DB
}

// NewUserRepository creates a new PgxUserRepository.
func NewUserRepository(db DB) *PgxUserRepository {
	return &PgxUserRepository{db: db}
}

const userColumns = `id, username, password_hash, name, email, role, last_login, created_at`

func scanUserRow(row pgx.Row) (*domain.UserRow, error) {
	var u domain.UserRow
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Email, &u.Role, &u.LastLogin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetByUsername returns the user matching the given username.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByUsername(ctx context.Context, username string) (*domain.UserRow, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUserRow(r.db.QueryRow(ctx, query, username))
}

// GetByID returns the user with the given id.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByID(ctx context.Context, id string) (*domain.UserRow, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUserRow(r.db.QueryRow(ctx, query, id))
}

// List returns all users ordered by creation time. The password hash column
// never leaves this boundary: it is excluded from the projection.
func (r *PgxUserRepository) List(ctx context.Context) ([]domain.UserRow, error) {
	query := `SELECT id, username, name, email, role, last_login, created_at FROM users ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.UserRow
	for rows.Next() {
		var u domain.UserRow
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.Role, &u.LastLogin, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Create inserts a new user. Returns domain.ErrDuplicateUsername when the
// username is already taken.
func (r *PgxUserRepository) Create(ctx context.Context, user *domain.UserRow) error {
	query := `
		INSERT INTO users (id, username, password_hash, name, email, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.Name, user.Email, user.Role, user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateUsername
	}
	return err
}

// Update rewrites the user's mutable fields; the password hash is touched
// only when non-empty. Returns domain.ErrNotFound for an unknown id.
func (r *PgxUserRepository) Update(ctx context.Context, user *domain.UserRow) error {
	var (
		tag pgconn.CommandTag
		err error
	)
	if user.PasswordHash != "" {
		query := `UPDATE users SET username = $1, password_hash = $2, name = $3, email = $4, role = $5 WHERE id = $6`
		tag, err = r.db.Exec(ctx, query, user.Username, user.PasswordHash, user.Name, user.Email, user.Role, user.ID)
	} else {
		query := `UPDATE users SET username = $1, name = $2, email = $3, role = $4 WHERE id = $5`
		tag, err = r.db.Exec(ctx, query, user.Username, user.Name, user.Email, user.Role, user.ID)
	}
	if isUniqueViolation(err) {
		return domain.ErrDuplicateUsername
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces only the password hash. Returns domain.ErrNotFound
// for an unknown id.
func (r *PgxUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateLastLogin sets last_login to now for the given user.
func (r *PgxUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	query := `UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// Delete removes the user. Deleting an unknown id is not an error.
func (r *PgxUserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// CountByRole returns the number of users holding the given role.
func (r *PgxUserRepository) CountByRole(ctx context.Context, role string) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE role = $1`

	var count int
	if err := r.db.QueryRow(ctx, query, role).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
