// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"
	"errors"
	"time"

	authDomain "github.com/allisson/tablegate/internal/auth/domain"
	authService "github.com/allisson/tablegate/internal/auth/service"
	"github.com/allisson/tablegate/internal/config"
)

// authUseCase implements AuthUseCase for password login and token resolution.
type authUseCase struct {
	config          *config.Config
	principalRepo   PrincipalRepository
	passwordService authService.PasswordService
	tokenService    authService.TokenService
}

// Login authenticates a principal and issues a signed bearer token.
//
// Security Notes:
//   - Returns ErrInvalidCredentials for both non-existent principals and wrong
//     passwords to prevent username enumeration attacks
//   - Token expiration is set from Config.TokenExpiration
func (a *authUseCase) Login(ctx context.Context, username, password string) (*authDomain.TokenOutput, error) {
	principal, err := a.principalRepo.GetByUsername(ctx, username)
	if err != nil {
		// If principal not found, return generic error to prevent enumeration
		if errors.Is(err, authDomain.ErrPrincipalNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	// Verify the password
	if !a.passwordService.Verify(password, principal.PasswordHash) {
		return nil, authDomain.ErrInvalidCredentials
	}

	token, expiresAt, err := a.tokenService.Issue(principal.Username, a.config.TokenExpiration)
	if err != nil {
		return nil, err
	}

	return &authDomain.TokenOutput{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// Resolve verifies a bearer token and loads the principal it names.
//
// Verification failures (expired, malformed, bad signature, missing subject)
// propagate unchanged so the transport layer can report expiry distinctly.
// A valid token naming a principal that no longer exists collapses into
// ErrInvalidCredentials: the token itself proves nothing once the principal
// is gone, and the caller learns nothing about why.
func (a *authUseCase) Resolve(ctx context.Context, token string) (*authDomain.Principal, error) {
	subject, err := a.tokenService.Verify(token)
	if err != nil {
		return nil, err
	}

	principal, err := a.principalRepo.GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, authDomain.ErrPrincipalNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	return principal, nil
}

// CreatePrincipal hashes the password and stores a new principal.
func (a *authUseCase) CreatePrincipal(
	ctx context.Context,
	input *authDomain.CreatePrincipalInput,
) (*authDomain.Principal, error) {
	hashedPassword, err := a.passwordService.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	principal := &authDomain.Principal{
		Username:     input.Username,
		PasswordHash: hashedPassword,
		Permissions:  input.Permissions,
		Email:        input.Email,
		CreatedAt:    time.Now().UTC(),
	}

	if err := a.principalRepo.Create(ctx, principal); err != nil {
		return nil, err
	}

	return principal, nil
}

// NewAuthUseCase creates a new AuthUseCase with the provided dependencies.
func NewAuthUseCase(
	config *config.Config,
	principalRepo PrincipalRepository,
	passwordService authService.PasswordService,
	tokenService authService.TokenService,
) AuthUseCase {
	return &authUseCase{
		config:          config,
		principalRepo:   principalRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
	}
}
