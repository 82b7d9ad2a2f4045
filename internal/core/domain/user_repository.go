package domain

import "context"

// UserRepository defines the data-access contract for user records. The
// repository exclusively owns the users table; no other component writes it.
type UserRepository interface {
	// GetByUsername returns the user matching the given username.
	// Returns (nil, nil) when no user is found.
	GetByUsername(ctx context.Context, username string) (*UserRow, error)

	// GetByID returns the user with the given id.
	// Returns (nil, nil) when no user is found.
	GetByID(ctx context.Context, id string) (*UserRow, error)

	// List returns all users ordered by creation time. The password hash
	// column is excluded from the projection; PasswordHash is always empty
	// in the returned rows.
	List(ctx context.Context) ([]UserRow, error)

	// Create inserts a new user. Returns ErrDuplicateUsername when the
	// username is already taken.
	Create(ctx context.Context, user *UserRow) error

	// Update rewrites username, name, email and role for the given id, and
	// the password hash too when user.PasswordHash is non-empty. Returns
	// ErrNotFound for an unknown id and ErrDuplicateUsername when the new
	// username collides with another user.
	Update(ctx context.Context, user *UserRow) error

	// UpdatePassword replaces only the password hash. Returns ErrNotFound
	// for an unknown id.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// UpdateLastLogin sets last_login to now. Best-effort from the caller's
	// perspective; a failure must not abort a login.
	UpdateLastLogin(ctx context.Context, id string) error

	// Delete removes the user. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// CountByRole returns the number of users holding the given role.
	CountByRole(ctx context.Context, role string) (int, error)
}
