// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	authDomain "github.com/allisson/tablegate/internal/auth/domain"
)

// TokenResponse contains the result of a successful login.
// SECURITY: The token is only returned once and must be saved securely.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// MapTokenToResponse converts a domain token output to an API response.
func MapTokenToResponse(output *authDomain.TokenOutput) TokenResponse {
	return TokenResponse{
		AccessToken: output.AccessToken,
		TokenType:   output.TokenType,
		ExpiresAt:   output.ExpiresAt,
	}
}
