// Package usecase defines business logic interfaces for entity store operations.
package usecase

import (
	"context"
	"time"

	"github.com/allisson/tablegate/internal/entity/domain"
	"github.com/allisson/tablegate/internal/entity/store"
)

// StoreProvider hands out entity stores per connection target.
// Implemented by store.Manager; declared here so use cases stay mockable.
type StoreProvider interface {
	Store(ctx context.Context, target store.Target) (store.Store, error)
}

// TableOptions addresses one entity table for an operation. Zero values fall
// back to the configured defaults, so most callers pass an empty struct.
type TableOptions struct {
	// Target selects the database to talk to. Empty fields default to the
	// configured store target.
	Target store.Target

	// Table names the entity table. Empty defaults to the configured name.
	Table string
}

// StageOutput describes a staged payload awaiting publication.
type StageOutput struct {
	ID        string
	ExpiresAt time.Time
	Record    domain.Record
}

// EntityUseCase defines business logic operations against the entity store.
//
// Operations connect lazily: the target table is opened (and created when
// absent) on first use. Capability checks happen at the transport layer;
// these methods assume an authorized caller.
type EntityUseCase interface {
	// Query returns all records matching the query's filter, projected to the
	// query's fields.
	Query(ctx context.Context, opts TableOptions, query domain.Query) ([]domain.Record, error)

	// Get fetches one record. An empty partitionKey defaults to the
	// configured partition key. Returns ErrEntityNotFound on a definitive
	// miss; remote failures surface as distinct errors.
	Get(ctx context.Context, opts TableOptions, partitionKey, rowKey string) (domain.Record, error)

	// Publish parses a payload and upserts the resulting record.
	Publish(ctx context.Context, opts TableOptions, payload string) (domain.Record, error)

	// Stage parses a payload and holds the record for later publication.
	// No store I/O happens; the record is validated and parked under a
	// single-use handle.
	Stage(payload string) (*StageOutput, error)

	// PublishStaged takes a staged record by handle and upserts it.
	// The handle is consumed whether or not the upsert succeeds.
	PublishStaged(ctx context.Context, opts TableOptions, stagingID string) (domain.Record, error)

	// Delete removes one record. An empty partitionKey defaults to the
	// configured partition key. Returns ErrEntityNotFound when no record
	// matched.
	Delete(ctx context.Context, opts TableOptions, partitionKey, rowKey string) error
}
