package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/tablegate/internal/entity/http/dto"
	entityUseCase "github.com/allisson/tablegate/internal/entity/usecase"
	"github.com/allisson/tablegate/internal/httputil"
	customValidation "github.com/allisson/tablegate/internal/validation"
)

// EntryHandler handles HTTP requests addressing single entity records.
type EntryHandler struct {
	entityUseCase entityUseCase.EntityUseCase
	logger        *slog.Logger
}

// NewEntryHandler creates a new entry handler with required dependencies.
func NewEntryHandler(
	entityUseCase entityUseCase.EntityUseCase,
	logger *slog.Logger,
) *EntryHandler {
	return &EntryHandler{
		entityUseCase: entityUseCase,
		logger:        logger,
	}
}

// GetHandler fetches one entity record by partition and row key.
// POST /v1/get - Requires read capability.
// An omitted partition key defaults to the configured one.
// Returns 200 OK with the record, 404 when no record exists.
func (h *EntryHandler) GetHandler(c *gin.Context) {
	var req dto.EntryRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	record, err := h.entityUseCase.Get(
		c.Request.Context(),
		tableOptions(req.TableRequest),
		req.PartitionKey,
		req.RowKey,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.EntryResponse{Entry: record})
}

// DeleteHandler removes one entity record by partition and row key.
// POST /v1/delete - Requires delete capability.
// Returns 200 OK with a confirmation message, 404 when no record matched.
func (h *EntryHandler) DeleteHandler(c *gin.Context) {
	var req dto.EntryRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	err := h.entityUseCase.Delete(
		c.Request.Context(),
		tableOptions(req.TableRequest),
		req.PartitionKey,
		req.RowKey,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteResponse{Message: "entry deleted"})
}
