// Package usecase implements business logic orchestration for entity store operations.
package usecase

import (
	"context"

	"github.com/allisson/tablegate/internal/config"
	"github.com/allisson/tablegate/internal/entity/domain"
	"github.com/allisson/tablegate/internal/entity/parser"
	"github.com/allisson/tablegate/internal/entity/staging"
	"github.com/allisson/tablegate/internal/entity/store"
)

// entityUseCase implements EntityUseCase on top of a store provider, the
// payload parser, and the staging arena.
type entityUseCase struct {
	config   *config.Config
	provider StoreProvider
	parser   *parser.Parser
	arena    *staging.Arena
}

// openTable resolves table options against configured defaults and opens the
// table, creating it when absent.
func (e *entityUseCase) openTable(ctx context.Context, opts TableOptions) (store.Table, error) {
	target := opts.Target
	if target.Driver == "" {
		target.Driver = e.config.StoreDriver
	}
	if target.ConnectionString == "" {
		target.ConnectionString = e.config.StoreConnectionString
	}

	tableName := opts.Table
	if tableName == "" {
		tableName = e.config.StoreTableName
	}

	s, err := e.provider.Store(ctx, target)
	if err != nil {
		return nil, err
	}
	return s.Open(ctx, tableName)
}

// Query returns all records matching the query.
func (e *entityUseCase) Query(
	ctx context.Context,
	opts TableOptions,
	query domain.Query,
) ([]domain.Record, error) {
	table, err := e.openTable(ctx, opts)
	if err != nil {
		return nil, err
	}

	it, err := table.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	records := []domain.Record{}
	for it.Next() {
		records = append(records, it.Record())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Get fetches one record, defaulting the partition key when empty.
func (e *entityUseCase) Get(
	ctx context.Context,
	opts TableOptions,
	partitionKey, rowKey string,
) (domain.Record, error) {
	if rowKey == "" {
		return nil, domain.ErrMissingRowKey
	}
	if partitionKey == "" {
		partitionKey = e.config.DefaultPartitionKey
	}

	table, err := e.openTable(ctx, opts)
	if err != nil {
		return nil, err
	}
	return table.Get(ctx, partitionKey, rowKey)
}

// Publish parses a payload and upserts the resulting record.
func (e *entityUseCase) Publish(
	ctx context.Context,
	opts TableOptions,
	payload string,
) (domain.Record, error) {
	record, err := e.parser.Parse(payload)
	if err != nil {
		return nil, err
	}

	table, err := e.openTable(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := table.Upsert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Stage parses a payload and parks the record in the staging arena.
func (e *entityUseCase) Stage(payload string) (*StageOutput, error) {
	record, err := e.parser.Parse(payload)
	if err != nil {
		return nil, err
	}

	id, expiresAt := e.arena.Put(record)
	return &StageOutput{
		ID:        id,
		ExpiresAt: expiresAt,
		Record:    record,
	}, nil
}

// PublishStaged consumes a staged record and upserts it.
func (e *entityUseCase) PublishStaged(
	ctx context.Context,
	opts TableOptions,
	stagingID string,
) (domain.Record, error) {
	record, err := e.arena.Take(stagingID)
	if err != nil {
		return nil, err
	}

	table, err := e.openTable(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := table.Upsert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes one record, defaulting the partition key when empty.
func (e *entityUseCase) Delete(
	ctx context.Context,
	opts TableOptions,
	partitionKey, rowKey string,
) error {
	if rowKey == "" {
		return domain.ErrMissingRowKey
	}
	if partitionKey == "" {
		partitionKey = e.config.DefaultPartitionKey
	}

	table, err := e.openTable(ctx, opts)
	if err != nil {
		return err
	}
	return table.Delete(ctx, partitionKey, rowKey)
}

// NewEntityUseCase creates a new EntityUseCase with the provided dependencies.
func NewEntityUseCase(
	config *config.Config,
	provider StoreProvider,
	parser *parser.Parser,
	arena *staging.Arena,
) EntityUseCase {
	return &entityUseCase{
		config:   config,
		provider: provider,
		parser:   parser,
		arena:    arena,
	}
}
