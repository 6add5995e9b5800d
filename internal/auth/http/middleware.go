// Package http provides HTTP middleware and utilities for authentication.
package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/tablegate/internal/auth/domain"
	authUseCase "github.com/allisson/tablegate/internal/auth/usecase"
	apperrors "github.com/allisson/tablegate/internal/errors"
	"github.com/allisson/tablegate/internal/httputil"
)

// AuthenticationMiddleware provides authentication via Bearer token in the Authorization header.
//
// The middleware:
// 1. Extracts the Bearer token from the Authorization header (case-insensitive)
// 2. Verifies the token and loads the principal via authUseCase.Resolve()
// 3. Stores the authenticated principal in the request context
// 4. Allows downstream handlers to access the principal via GetPrincipal()
//
// Authorization header format: "Bearer <token>" (case-insensitive "bearer")
//
// Error handling:
//   - Missing Authorization header → 401 Unauthorized
//   - Malformed Authorization header → 401 Unauthorized
//   - Expired token → 401 with error "token_expired" so callers know to refresh
//   - Malformed/bad-signature token, unknown subject → 401 Unauthorized
//   - Other errors → mapped by httputil.HandleErrorGin
//
// An expired token is an expected client condition, not evidence of tampering,
// so it is logged at debug like every other authentication miss.
func AuthenticationMiddleware(
	authUseCase authUseCase.AuthUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Parse Bearer token (case-insensitive)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		token := authHeader[len(bearerPrefix):]
		if token == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Verify the token and load the principal
		principal, err := authUseCase.Resolve(c.Request.Context(), token)
		if err != nil {
			if apperrors.Is(err, authDomain.ErrTokenExpired) {
				logger.Debug("authentication failed: token expired")
				c.JSON(http.StatusUnauthorized, httputil.ErrorResponse{
					Error:   "token_expired",
					Message: "The bearer token has expired, request a new one",
				})
				c.Abort()
				return
			}
			logger.Debug("authentication failed",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		// Store authenticated principal in context
		ctx := WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("username", principal.Username))

		// Continue to next handler
		c.Next()
	}
}

// AuthorizationMiddleware provides capability-based authorization for authenticated principals.
//
// This middleware MUST be used after AuthenticationMiddleware, as it requires an
// authenticated principal to be present in the request context. Each protected
// route declares exactly one required capability; the route table doubles as the
// capability requirement table.
//
// Error handling:
//   - No principal in context → 401 Unauthorized (AuthenticationMiddleware not run)
//   - Principal lacks capability → 403 Forbidden, message names the missing capability
//
// Usage:
//
//	router.POST("/v1/query",
//	    AuthenticationMiddleware(authUseCase, logger),
//	    AuthorizationMiddleware(authDomain.ReadCapability, logger),
//	    handler)
func AuthorizationMiddleware(
	capability authDomain.Capability,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := GetPrincipal(c.Request.Context())

		if err := authDomain.Require(principal, capability); err != nil {
			var denied *authDomain.PermissionDeniedError
			if apperrors.As(err, &denied) {
				logger.Debug("authorization failed: insufficient permissions",
					slog.String("username", principal.Username),
					slog.String("capability", string(capability)))
				// The message names the missing capability so the caller can
				// tell which grant to request.
				c.JSON(http.StatusForbidden, httputil.ErrorResponse{
					Error:   "forbidden",
					Message: denied.Error(),
				})
				c.Abort()
				return
			}

			logger.Debug("authorization failed: no authenticated principal in context")
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		logger.Debug("authorization successful",
			slog.String("username", principal.Username),
			slog.String("capability", string(capability)))

		// Continue to next handler
		c.Next()
	}
}
