package commands

import (
	"fmt"

	authService "github.com/allisson/tablegate/internal/auth/service"
)

// RunHashPassword hashes a password with the configured Argon2id policy and
// prints the encoded hash. Useful for seeding principals out of band.
func RunHashPassword(password string, io IOTuple) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	passwordService := authService.NewPasswordService()
	hash, err := passwordService.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, _ = fmt.Fprintln(io.Writer, hash)
	return nil
}
