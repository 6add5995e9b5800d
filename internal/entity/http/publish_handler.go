package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/allisson/tablegate/internal/entity/http/dto"
	entityUseCase "github.com/allisson/tablegate/internal/entity/usecase"
	"github.com/allisson/tablegate/internal/httputil"
	customValidation "github.com/allisson/tablegate/internal/validation"
)

// PublishHandler handles HTTP requests that bring payloads into the store:
// staging uploads, direct publications, and publication of staged payloads.
type PublishHandler struct {
	entityUseCase   entityUseCase.EntityUseCase
	maxPayloadBytes int64
	logger          *slog.Logger
}

// NewPublishHandler creates a new publish handler with required dependencies.
func NewPublishHandler(
	entityUseCase entityUseCase.EntityUseCase,
	maxPayloadBytes int64,
	logger *slog.Logger,
) *PublishHandler {
	return &PublishHandler{
		entityUseCase:   entityUseCase,
		maxPayloadBytes: maxPayloadBytes,
		logger:          logger,
	}
}

// UploadHandler stages a payload for later publication.
// POST /v1/upload - Requires write capability.
// Accepts a multipart file field "file" or a raw text body. No store I/O
// happens; the parsed record waits under a single-use handle until published
// or expired.
// Returns 201 Created with the staging handle and its expiry.
func (h *PublishHandler) UploadHandler(c *gin.Context) {
	payload, err := h.readPayload(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	output, err := h.entityUseCase.Stage(payload)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.StageResponse{
		StagingID: output.ID,
		ExpiresAt: output.ExpiresAt,
	})
}

// PublishDirectHandler parses a payload and publishes it in one step.
// POST /v1/publish with a multipart file or raw text body - Requires write
// capability.
// Returns 201 Created with the published record's keys.
func (h *PublishHandler) PublishDirectHandler(c *gin.Context) {
	payload, err := h.readPayload(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	record, err := h.entityUseCase.Publish(c.Request.Context(), formTableOptions(c), payload)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.PublishResponse{
		Message:      "entry published",
		PartitionKey: record.PartitionKey(),
		RowKey:       record.RowKey(),
	})
}

// PublishHandler publishes a payload, either directly or from staging.
// POST /v1/publish - Requires write capability.
// Two modes, selected by content type:
//   - multipart/form-data or text body: parse and publish in one step
//   - application/json: {"staging_id": ...} publishes a staged payload,
//     consuming its handle
//
// Returns 201 Created with the published record's keys; 404 when the staging
// handle is unknown, consumed, or expired.
func (h *PublishHandler) PublishHandler(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		h.publishStaged(c)
		return
	}
	h.PublishDirectHandler(c)
}

func (h *PublishHandler) publishStaged(c *gin.Context) {
	var req dto.PublishStagedRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	record, err := h.entityUseCase.PublishStaged(
		c.Request.Context(),
		tableOptions(req.TableRequest),
		req.StagingID,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.PublishResponse{
		Message:      "entry published",
		PartitionKey: record.PartitionKey(),
		RowKey:       record.RowKey(),
	})
}

// formTableOptions reads the table selection from form or query values, for
// the modes that carry the payload in the body.
func formTableOptions(c *gin.Context) entityUseCase.TableOptions {
	value := func(key string) string {
		if v := c.PostForm(key); v != "" {
			return v
		}
		return c.Query(key)
	}
	return tableOptions(dto.TableRequest{
		Table:            value("table"),
		Driver:           value("driver"),
		ConnectionTarget: value("connection_target"),
	})
}

// readPayload extracts the payload text from a multipart file field "file" or
// the raw request body, capped at the configured size.
func (h *PublishHandler) readPayload(c *gin.Context) (string, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return "", fmt.Errorf("missing multipart file field %q: %w", "file", err)
		}
		if fileHeader.Size > h.maxPayloadBytes {
			return "", fmt.Errorf("payload exceeds %d bytes", h.maxPayloadBytes)
		}

		file, err := fileHeader.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open uploaded file: %w", err)
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, h.maxPayloadBytes+1))
		if err != nil {
			return "", fmt.Errorf("failed to read uploaded file: %w", err)
		}
		if int64(len(data)) > h.maxPayloadBytes {
			return "", fmt.Errorf("payload exceeds %d bytes", h.maxPayloadBytes)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, h.maxPayloadBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read request body: %w", err)
	}
	if int64(len(data)) > h.maxPayloadBytes {
		return "", fmt.Errorf("payload exceeds %d bytes", h.maxPayloadBytes)
	}
	return string(data), nil
}
