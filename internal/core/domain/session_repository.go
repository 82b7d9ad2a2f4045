package domain

import (
	"context"
	"time"
)

// SessionUserRow is a session joined with its owning user, returned by the
// validity lookup.
type SessionUserRow struct {
	Session Session
	User    UserRow
}

// SessionRepository defines the data-access contract for session records.
type SessionRepository interface {
	// Create inserts a new session.
	Create(ctx context.Context, session *Session) error

	// FindValid looks up the session by id and returns it joined with its
	// owner, but only while the session is live at the given instant.
	// Returns (nil, nil) when the id is unknown OR the session has expired;
	// callers cannot distinguish the two cases.
	FindValid(ctx context.Context, sessionID string, now time.Time) (*SessionUserRow, error)

	// Delete removes the session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, sessionID string) error

	// DeleteAllForUser removes every session owned by the given user.
	DeleteAllForUser(ctx context.Context, userID string) error

	// DeleteExpired purges sessions past their expiry at the given instant
	// and returns the number of rows removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
