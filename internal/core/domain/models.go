// Package domain defines the data model and the data-access contracts the
// Logic layer depends on. Implementations live in internal/core/repository;
// the Logic layer never touches SQL or pgx directly.
package domain

import (
	"errors"
	"time"
)

// Recognized user roles. Exactly two exist in this system.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Storage-level sentinel errors. Repositories translate driver errors into
// these; the Logic layer wraps them into its own taxonomy.
var (
	// ErrDuplicateUsername is returned when an insert or update would
	// violate the unique username constraint.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrNotFound is returned by mutations targeting a row that does not exist.
	ErrNotFound = errors.New("record not found")
)

// UserRow is the full user record, including the password hash. It must
// never be serialized to a client; use Sanitized for outbound payloads.
type UserRow struct {
	ID           string
	Username     string
	PasswordHash string
	Name         string
	Email        string
	Role         string
	LastLogin    *time.Time
	CreatedAt    time.Time
}

// Sanitized returns the client-safe projection of the user, with the
// password hash stripped.
func (u *UserRow) Sanitized() User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}

// IsAdmin reports whether the user holds the privileged role.
func (u *UserRow) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// User is the sanitized user representation returned to clients.
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// IsAdmin reports whether the user holds the privileged role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session is a server-side login session. It is never updated in place: a
// session is created at login, then deleted at logout or ignored once past
// its expiry.
type Session struct {
	ID         string
	UserID     string
	ExpiresAt  time.Time
	RememberMe bool
	CreatedAt  time.Time
}

// Order is a customer order record.
type Order struct {
	ID            string    `json:"id"`
	Marketplace   string    `json:"marketplace"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	Product       string    `json:"product"`
	Quantity      int       `json:"quantity"`
	Price         float64   `json:"price"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LoginRequest is the POST /auth/login payload.
type LoginRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// SessionRequest carries the opaque session id for verify and logout.
type SessionRequest struct {
	SessionID string `json:"sessionId"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Success   bool      `json:"success"`
	User      User      `json:"user"`
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreateUserRequest is the POST /users payload.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=admin user"`
}

// UpdateUserRequest is the PUT /users/:id payload. Password is optional;
// when empty the stored hash is left untouched.
type UpdateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=admin user"`
}

// ChangePasswordRequest is the POST /users/:id/change-password payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}
