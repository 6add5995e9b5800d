// Package http provides HTTP handlers for authentication operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/tablegate/internal/auth/http/dto"
	authUseCase "github.com/allisson/tablegate/internal/auth/usecase"
	"github.com/allisson/tablegate/internal/httputil"
	customValidation "github.com/allisson/tablegate/internal/validation"
)

// TokenHandler handles HTTP requests for token operations.
// It coordinates password login with the AuthUseCase.
type TokenHandler struct {
	authUseCase authUseCase.AuthUseCase
	logger      *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(
	authUseCase authUseCase.AuthUseCase,
	logger *slog.Logger,
) *TokenHandler {
	return &TokenHandler{
		authUseCase: authUseCase,
		logger:      logger,
	}
}

// LoginHandler issues a new bearer token for a principal.
// POST /v1/token - No authentication required (this is the authentication endpoint).
// Accepts form data or JSON with username and password.
// Returns 200 OK with the signed token and its expiration time.
func (h *TokenHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	// Bind form data (also accepts JSON bodies)
	if err := c.ShouldBind(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Call use case
	output, err := h.authUseCase.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenToResponse(output))
}
