package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ordercrm/crm-service/internal/core/domain"
)

// PgxSessionRepository implements domain.SessionRepository using pgx.
type PgxSessionRepository struct {
	db DB
}

// NewSessionRepository creates a new PgxSessionRepository.
func NewSessionRepository(db DB) *PgxSessionRepository {
	return &PgxSessionRepository{db: db}
}

// Create inserts a new session.
func (r *PgxSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, expires_at, remember_me, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		session.ID, session.UserID, session.ExpiresAt, session.RememberMe, session.CreatedAt,
	)
	return err
}

// FindValid looks up a live session by id, joined with its owning user.
// The expiry check happens in the query, so an expired session is
// indistinguishable from an absent one: both return (nil, nil).
func (r *PgxSessionRepository) FindValid(ctx context.Context, sessionID string, now time.Time) (*domain.SessionUserRow, error) {
	query := `
		SELECT s.id, s.user_id, s.expires_at, s.remember_me, s.created_at,
		       u.id, u.username, u.password_hash, u.name, u.email, u.role, u.last_login, u.created_at
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.id = $1 AND s.expires_at > $2
	`

	var row domain.SessionUserRow
	err := r.db.QueryRow(ctx, query, sessionID, now).Scan(
		&row.Session.ID, &row.Session.UserID, &row.Session.ExpiresAt, &row.Session.RememberMe, &row.Session.CreatedAt,
		&row.User.ID, &row.User.Username, &row.User.PasswordHash, &row.User.Name, &row.User.Email, &row.User.Role,
		&row.User.LastLogin, &row.User.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Delete removes the session. Deleting an unknown id is not an error.
func (r *PgxSessionRepository) Delete(ctx context.Context, sessionID string) error {
	query := `DELETE FROM sessions WHERE id = $1`
	_, err := r.db.Exec(ctx, query, sessionID)
	return err
}

// DeleteAllForUser removes every session owned by the given user.
func (r *PgxSessionRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	query := `DELETE FROM sessions WHERE user_id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

// DeleteExpired purges sessions past their expiry and returns the count.
func (r *PgxSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at <= $1`
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
