// Package http provides HTTP handlers for entity store operations.
// Every handler runs behind authentication and a capability check; the route
// table in the server wires the required capability per endpoint.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	entityDomain "github.com/allisson/tablegate/internal/entity/domain"
	"github.com/allisson/tablegate/internal/entity/http/dto"
	"github.com/allisson/tablegate/internal/entity/store"
	entityUseCase "github.com/allisson/tablegate/internal/entity/usecase"
	"github.com/allisson/tablegate/internal/httputil"
	customValidation "github.com/allisson/tablegate/internal/validation"
)

// tableOptions converts a table selection DTO into use case options.
func tableOptions(req dto.TableRequest) entityUseCase.TableOptions {
	return entityUseCase.TableOptions{
		Target: store.Target{
			Driver:           req.Driver,
			ConnectionString: req.ConnectionTarget,
		},
		Table: req.Table,
	}
}

// QueryHandler handles HTTP requests for querying entity records.
type QueryHandler struct {
	entityUseCase entityUseCase.EntityUseCase
	logger        *slog.Logger
}

// NewQueryHandler creates a new query handler with required dependencies.
func NewQueryHandler(
	entityUseCase entityUseCase.EntityUseCase,
	logger *slog.Logger,
) *QueryHandler {
	return &QueryHandler{
		entityUseCase: entityUseCase,
		logger:        logger,
	}
}

// QueryHandler returns entity records matching a filter expression.
// POST /v1/query - Requires read capability.
// Returns 200 OK with the matching records, projected to the requested fields.
func (h *QueryHandler) QueryHandler(c *gin.Context) {
	var req dto.QueryRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Call use case
	records, err := h.entityUseCase.Query(c.Request.Context(), tableOptions(req.TableRequest), entityDomain.Query{
		Filter: req.Filter,
		Fields: req.Fields,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.QueryResponse{Results: records})
}
