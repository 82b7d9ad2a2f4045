// Package v1 provides the business logic for API version 1: authentication,
// user management and order management.
//
// Error Handling:
// This package defines sentinel errors that represent common failures.
// These errors should be wrapped with context using fmt.Errorf("%w") when
// returned from business logic methods.
//
// Error Checking (in handlers):
//
//	switch {
//	case errors.Is(err, logicv1.ErrInvalidCredentials):
//	    c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
//	case errors.Is(err, logicv1.ErrUserNotFound):
//	    c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
//	}
package v1

import "errors"

// Sentinel errors for business logic operations.
// These errors should be wrapped with context using fmt.Errorf("%w") when returned.
var (
	// ErrInvalidCredentials indicates the provided credentials are incorrect.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound indicates the user does not exist in the system.
	// HTTP Status: 401 Unauthorized (don't reveal user existence)
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists indicates the username already exists in the system.
	// HTTP Status: 409 Conflict
	ErrUserExists = errors.New("user already exists")

	// ErrNoSession indicates no session id was supplied.
	// HTTP Status: 401 Unauthorized
	ErrNoSession = errors.New("no session")

	// ErrSessionNotFound indicates the session id is unknown or expired.
	// The two cases are deliberately indistinguishable.
	// HTTP Status: 401 Unauthorized
	ErrSessionNotFound = errors.New("invalid or expired session")

	// ErrNotFound indicates the target record does not exist.
	// HTTP Status: 404 Not Found
	ErrNotFound = errors.New("not found")
)
