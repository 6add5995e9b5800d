package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/tablegate/internal/entity/domain"
)

// mockEntityUseCase is a mock implementation of EntityUseCase for testing.
type mockEntityUseCase struct {
	mock.Mock
}

func (m *mockEntityUseCase) Query(ctx context.Context, opts TableOptions, query domain.Query) ([]domain.Record, error) {
	args := m.Called(ctx, opts, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *mockEntityUseCase) Get(ctx context.Context, opts TableOptions, partitionKey, rowKey string) (domain.Record, error) {
	args := m.Called(ctx, opts, partitionKey, rowKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Record), args.Error(1)
}

func (m *mockEntityUseCase) Publish(ctx context.Context, opts TableOptions, payload string) (domain.Record, error) {
	args := m.Called(ctx, opts, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Record), args.Error(1)
}

func (m *mockEntityUseCase) Stage(payload string) (*StageOutput, error) {
	args := m.Called(payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StageOutput), args.Error(1)
}

func (m *mockEntityUseCase) PublishStaged(ctx context.Context, opts TableOptions, stagingID string) (domain.Record, error) {
	args := m.Called(ctx, opts, stagingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Record), args.Error(1)
}

func (m *mockEntityUseCase) Delete(ctx context.Context, opts TableOptions, partitionKey, rowKey string) error {
	args := m.Called(ctx, opts, partitionKey, rowKey)
	return args.Error(0)
}

// recordingMetrics captures emitted samples for assertions.
type recordingMetrics struct {
	mu         sync.Mutex
	operations []string
	statuses   []string
}

func (r *recordingMetrics) RecordOperation(_ context.Context, _, operation, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations = append(r.operations, operation)
	r.statuses = append(r.statuses, status)
}

func (r *recordingMetrics) RecordDuration(_ context.Context, _, _ string, _ time.Duration, _ string) {
}

func TestEntityUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("success recorded", func(t *testing.T) {
		next := &mockEntityUseCase{}
		rec := &recordingMetrics{}
		uc := NewEntityUseCaseWithMetrics(next, rec)

		next.On("Query", ctx, TableOptions{}, domain.Query{}).
			Return([]domain.Record{}, nil).
			Once()

		_, err := uc.Query(ctx, TableOptions{}, domain.Query{})
		assert.NoError(t, err)
		assert.Equal(t, []string{"entity_query"}, rec.operations)
		assert.Equal(t, []string{"success"}, rec.statuses)
	})

	t.Run("error recorded and propagated", func(t *testing.T) {
		next := &mockEntityUseCase{}
		rec := &recordingMetrics{}
		uc := NewEntityUseCaseWithMetrics(next, rec)

		wantErr := errors.New("store down")
		next.On("Delete", ctx, TableOptions{}, "pkey", "v1").
			Return(wantErr).
			Once()

		err := uc.Delete(ctx, TableOptions{}, "pkey", "v1")
		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, []string{"entity_delete"}, rec.operations)
		assert.Equal(t, []string{"error"}, rec.statuses)
	})

	t.Run("all operations pass through", func(t *testing.T) {
		next := &mockEntityUseCase{}
		rec := &recordingMetrics{}
		uc := NewEntityUseCaseWithMetrics(next, rec)

		record := domain.Record{domain.PartitionKeyField: "pkey", domain.RowKeyField: "v1"}
		next.On("Get", ctx, TableOptions{}, "pkey", "v1").Return(record, nil).Once()
		next.On("Publish", ctx, TableOptions{}, "prefix = v1").Return(record, nil).Once()
		next.On("Stage", "prefix = v1").Return(&StageOutput{ID: "handle"}, nil).Once()
		next.On("PublishStaged", ctx, TableOptions{}, "handle").Return(record, nil).Once()

		_, _ = uc.Get(ctx, TableOptions{}, "pkey", "v1")
		_, _ = uc.Publish(ctx, TableOptions{}, "prefix = v1")
		_, _ = uc.Stage("prefix = v1")
		_, _ = uc.PublishStaged(ctx, TableOptions{}, "handle")

		assert.Equal(t, []string{
			"entity_get",
			"entity_publish",
			"entity_stage",
			"entity_publish_staged",
		}, rec.operations)
		next.AssertExpectations(t)
	})
}
