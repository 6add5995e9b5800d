// Package usecase defines business logic interfaces for authentication and authorization operations.
package usecase

import (
	"context"

	authDomain "github.com/allisson/tablegate/internal/auth/domain"
)

// PrincipalRepository defines persistence operations for principals.
type PrincipalRepository interface {
	// Create stores a new principal in the repository.
	Create(ctx context.Context, principal *authDomain.Principal) error

	// GetByUsername retrieves a principal by username.
	// Returns ErrPrincipalNotFound if not found.
	GetByUsername(ctx context.Context, username string) (*authDomain.Principal, error)
}

// AuthUseCase defines business logic operations for authentication.
type AuthUseCase interface {
	// Login authenticates a principal by username and password and issues a
	// signed bearer token.
	//
	// Returns ErrInvalidCredentials for both unknown usernames and wrong
	// passwords so callers cannot enumerate principals. Any other failure
	// (credential store unreachable, signing failure) is propagated as-is.
	Login(ctx context.Context, username, password string) (*authDomain.TokenOutput, error)

	// Resolve verifies a bearer token and loads the principal it names,
	// including the current capability triple. Token verification failures
	// propagate unchanged (expired, malformed, bad signature, no subject);
	// a valid token whose principal no longer exists collapses into
	// ErrInvalidCredentials.
	Resolve(ctx context.Context, token string) (*authDomain.Principal, error)

	// CreatePrincipal hashes the password and stores a new principal.
	// Used by the CLI only, never exposed over HTTP.
	CreatePrincipal(ctx context.Context, input *authDomain.CreatePrincipalInput) (*authDomain.Principal, error)
}
