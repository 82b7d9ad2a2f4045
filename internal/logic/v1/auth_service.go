package v1

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ordercrm/crm-service/internal/core/domain"
	"github.com/ordercrm/crm-service/middleware"
)

// Session lifetimes. Exactly two policies exist: the short default and the
// long remember-me variant.
const (
	sessionTTL    = 1 * time.Hour
	rememberMeTTL = 720 * time.Hour // 30 days
)

// Default administrator created when the store holds no admin account. A
// recoverability mechanism against total lockout; the password must be
// rotated immediately.
const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// AuthService implements login, session verification and logout.
// It depends on repository interfaces (injected via constructor) and
// MUST NOT access the database or SQL directly.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	now      func() time.Time
}

// NewAuthService creates a new AuthService with the given repository dependencies.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		now:      time.Now,
	}
}

// Login verifies the credential pair and issues a fresh session.
// Unknown username and wrong password surface as distinct sentinels for
// logging, but handlers must present them identically to the client.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", req.Username),
	))
	defer span.End()

	row, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %q: %w", req.Username, err)
	}
	if row == nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate user %q: %w", req.Username, ErrUserNotFound)
	}

	if !CheckPassword(req.Password, row.PasswordHash) {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate user %q: %w", req.Username, ErrInvalidCredentials)
	}

	// Best-effort: a failed last-login write must not abort the login.
	if updateErr := s.users.UpdateLastLogin(ctx, row.ID); updateErr != nil {
		span.RecordError(fmt.Errorf("update last_login: %w", updateErr))
		zerolog.Ctx(ctx).Warn().Err(updateErr).Str("user_id", row.ID).Msg("Failed to record last login")
	}

	token, err := NewSessionToken()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	ttl := sessionTTL
	if req.RememberMe {
		ttl = rememberMeTTL
	}
	now := s.now()
	session := &domain.Session{
		ID:         token,
		UserID:     row.ID,
		ExpiresAt:  now.Add(ttl),
		RememberMe: req.RememberMe,
		CreatedAt:  now,
	}
	// Unlike last-login, a session persist failure fails the whole login:
	// the client would otherwise hold a token that verifies to nothing.
	if err := s.sessions.Create(ctx, session); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create session: %w", err)
	}

	span.SetAttributes(
		attribute.String("user.id", row.ID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")

	return &domain.LoginResponse{
		Success:   true,
		User:      row.Sanitized(),
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// VerifySession resolves an opaque session id to its owning user. A missing
// id short-circuits without a store lookup; unknown and expired ids are
// indistinguishable, both yielding ErrSessionNotFound.
func (s *AuthService) VerifySession(ctx context.Context, sessionID string) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.verify_session", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if sessionID == "" {
		span.SetAttributes(attribute.Bool("session.valid", false))
		return nil, ErrNoSession
	}

	row, err := s.sessions.FindValid(ctx, sessionID, s.now())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query session: %w", err)
	}
	if row == nil {
		span.SetAttributes(attribute.Bool("session.valid", false))
		return nil, fmt.Errorf("lookup session: %w", ErrSessionNotFound)
	}

	user := row.User.Sanitized()
	span.SetAttributes(
		attribute.String("user.id", user.ID),
		attribute.Bool("session.valid", true),
	)
	return &user, nil
}

// Logout deletes the session. Signing out an unknown or already-expired id
// succeeds; there is nothing to tell the caller either way.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	ctx, span := middleware.StartSpan(ctx, "auth.logout", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// EnsureDefaultAdmin creates the well-known administrator account when no
// admin-role user exists. Called once at startup, after migrations.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context) error {
	count, err := s.users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("count admin users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := HashPassword(defaultAdminPassword)
	if err != nil {
		return err
	}
	admin := &domain.UserRow{
		ID:           uuid.NewString(),
		Username:     defaultAdminUsername,
		PasswordHash: hash,
		Name:         "Administrator",
		Email:        "admin@example.com",
		Role:         domain.RoleAdmin,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}

	zerolog.Ctx(ctx).Warn().
		Str("username", defaultAdminUsername).
		Msg("Default admin user created; rotate its password immediately")
	return nil
}

// PurgeExpiredSessions removes sessions past their expiry. Expiry is
// otherwise enforced lazily at verification time; this merely reclaims rows.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, s.now())
}
