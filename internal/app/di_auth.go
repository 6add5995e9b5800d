package app

import (
	"context"
	"fmt"

	authRepository "github.com/allisson/tablegate/internal/auth/repository"
	authService "github.com/allisson/tablegate/internal/auth/service"
	authUseCase "github.com/allisson/tablegate/internal/auth/usecase"
)

// PrincipalRepository returns the principal repository based on database driver.
func (c *Container) PrincipalRepository() (authUseCase.PrincipalRepository, error) {
	var err error
	c.principalRepositoryInit.Do(func() {
		c.principalRepository, err = c.initPrincipalRepository()
		if err != nil {
			c.initErrors["principalRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["principalRepository"]; exists {
		return nil, storedErr
	}
	return c.principalRepository, nil
}

// PasswordService returns the password hashing service.
func (c *Container) PasswordService() authService.PasswordService {
	c.passwordServiceInit.Do(func() {
		c.passwordService = authService.NewPasswordService()
	})
	return c.passwordService
}

// TokenService returns the bearer token service.
// The signing key is loaded (and decrypted through the configured KMS keeper
// when one is set) on first access.
func (c *Container) TokenService() (authService.TokenService, error) {
	var err error
	c.tokenServiceInit.Do(func() {
		c.tokenService, err = c.initTokenService()
		if err != nil {
			c.initErrors["tokenService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenService"]; exists {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// AuthUseCase returns the authentication use case.
func (c *Container) AuthUseCase() (authUseCase.AuthUseCase, error) {
	var err error
	c.authUseCaseInit.Do(func() {
		c.authUseCase, err = c.initAuthUseCase()
		if err != nil {
			c.initErrors["authUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authUseCase"]; exists {
		return nil, storedErr
	}
	return c.authUseCase, nil
}

// initPrincipalRepository creates the principal repository instance.
func (c *Container) initPrincipalRepository() (authUseCase.PrincipalRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for principal repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return authRepository.NewMySQLPrincipalRepository(db), nil
	case "postgres":
		return authRepository.NewPostgreSQLPrincipalRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTokenService loads the signing key and creates the token service.
func (c *Container) initTokenService() (authService.TokenService, error) {
	signingKey, err := authService.LoadSigningKey(
		context.Background(),
		c.config.TokenSigningKey,
		c.config.KMSKeyURI,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load token signing key: %w", err)
	}

	tokenService, err := authService.NewTokenService(signingKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	return tokenService, nil
}

// initAuthUseCase creates the auth use case with all its dependencies.
func (c *Container) initAuthUseCase() (authUseCase.AuthUseCase, error) {
	principalRepo, err := c.PrincipalRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get principal repository for auth use case: %w", err)
	}

	tokenService, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for auth use case: %w", err)
	}

	return authUseCase.NewAuthUseCase(
		c.config,
		principalRepo,
		c.PasswordService(),
		tokenService,
	), nil
}
