package v1

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ordercrm/crm-service/internal/core/domain"
	"github.com/ordercrm/crm-service/middleware"
)

// UserService implements administrator-facing user management. Callers are
// expected to have passed the admin gate already; the service itself does
// not re-check roles.
type UserService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	now      func() time.Time
}

// NewUserService creates a new UserService with the given repository dependencies.
func NewUserService(users domain.UserRepository, sessions domain.SessionRepository) *UserService {
	return &UserService{
		users:    users,
		sessions: sessions,
		now:      time.Now,
	}
}

// List returns all users without their password credentials.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "users.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	rows, err := s.users.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].Sanitized())
	}
	span.SetAttributes(attribute.Int("users.count", len(users)))
	return users, nil
}

// Create adds a new user account and returns its id.
func (s *UserService) Create(ctx context.Context, req domain.CreateUserRequest) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "users.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", req.Username),
	))
	defer span.End()

	hash, err := HashPassword(req.Password)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	user := &domain.UserRow{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hash,
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return "", fmt.Errorf("create user %q: %w", req.Username, ErrUserExists)
		}
		return "", fmt.Errorf("insert user: %w", err)
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	return user.ID, nil
}

// Update rewrites a user's profile. The password is rehashed only when the
// request carries one; an empty password leaves the credential untouched.
func (s *UserService) Update(ctx context.Context, id string, req domain.UpdateUserRequest) error {
	ctx, span := middleware.StartSpan(ctx, "users.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", id),
	))
	defer span.End()

	user := &domain.UserRow{
		ID:       id,
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
	}
	if req.Password != "" {
		hash, err := HashPassword(req.Password)
		if err != nil {
			span.RecordError(err)
			return err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("update user %q: %w", id, ErrNotFound)
		case errors.Is(err, domain.ErrDuplicateUsername):
			return fmt.Errorf("update user %q: %w", id, ErrUserExists)
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete removes a user and every session the user owns. Deleting an
// unknown id succeeds.
func (s *UserService) Delete(ctx context.Context, id string) error {
	ctx, span := middleware.StartSpan(ctx, "users.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", id),
	))
	defer span.End()

	// Sessions go first so a concurrent verify cannot resolve a half-deleted
	// account.
	if err := s.sessions.DeleteAllForUser(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete sessions for user %q: %w", id, err)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete user %q: %w", id, err)
	}
	return nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, id string, req domain.ChangePasswordRequest) error {
	ctx, span := middleware.StartSpan(ctx, "users.change_password", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", id),
	))
	defer span.End()

	row, err := s.users.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("query user %q: %w", id, err)
	}
	if row == nil {
		return fmt.Errorf("change password for user %q: %w", id, ErrNotFound)
	}

	if !CheckPassword(req.CurrentPassword, row.PasswordHash) {
		span.AddEvent("password.verification_failed")
		return fmt.Errorf("change password for user %q: %w", id, ErrInvalidCredentials)
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("change password for user %q: %w", id, ErrNotFound)
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
