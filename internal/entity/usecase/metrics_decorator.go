package usecase

import (
	"context"
	"time"

	"github.com/allisson/tablegate/internal/entity/domain"
	"github.com/allisson/tablegate/internal/metrics"
)

// entityUseCaseWithMetrics decorates EntityUseCase with metrics instrumentation.
type entityUseCaseWithMetrics struct {
	next    EntityUseCase
	metrics metrics.BusinessMetrics
}

// NewEntityUseCaseWithMetrics wraps an EntityUseCase with metrics recording.
func NewEntityUseCaseWithMetrics(useCase EntityUseCase, m metrics.BusinessMetrics) EntityUseCase {
	return &entityUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits counter and duration samples for one operation.
func (e *entityUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	e.metrics.RecordOperation(ctx, "entity", operation, status)
	e.metrics.RecordDuration(ctx, "entity", operation, time.Since(start), status)
}

// Query records metrics for query operations.
func (e *entityUseCaseWithMetrics) Query(
	ctx context.Context,
	opts TableOptions,
	query domain.Query,
) ([]domain.Record, error) {
	start := time.Now()
	records, err := e.next.Query(ctx, opts, query)
	e.record(ctx, "entity_query", start, err)
	return records, err
}

// Get records metrics for single-record fetches.
func (e *entityUseCaseWithMetrics) Get(
	ctx context.Context,
	opts TableOptions,
	partitionKey, rowKey string,
) (domain.Record, error) {
	start := time.Now()
	record, err := e.next.Get(ctx, opts, partitionKey, rowKey)
	e.record(ctx, "entity_get", start, err)
	return record, err
}

// Publish records metrics for direct publications.
func (e *entityUseCaseWithMetrics) Publish(
	ctx context.Context,
	opts TableOptions,
	payload string,
) (domain.Record, error) {
	start := time.Now()
	record, err := e.next.Publish(ctx, opts, payload)
	e.record(ctx, "entity_publish", start, err)
	return record, err
}

// Stage records metrics for staging operations.
func (e *entityUseCaseWithMetrics) Stage(payload string) (*StageOutput, error) {
	start := time.Now()
	output, err := e.next.Stage(payload)
	e.record(context.Background(), "entity_stage", start, err)
	return output, err
}

// PublishStaged records metrics for staged publications.
func (e *entityUseCaseWithMetrics) PublishStaged(
	ctx context.Context,
	opts TableOptions,
	stagingID string,
) (domain.Record, error) {
	start := time.Now()
	record, err := e.next.PublishStaged(ctx, opts, stagingID)
	e.record(ctx, "entity_publish_staged", start, err)
	return record, err
}

// Delete records metrics for delete operations.
func (e *entityUseCaseWithMetrics) Delete(
	ctx context.Context,
	opts TableOptions,
	partitionKey, rowKey string,
) error {
	start := time.Now()
	err := e.next.Delete(ctx, opts, partitionKey, rowKey)
	e.record(ctx, "entity_delete", start, err)
	return err
}
