package domain

import (
	"github.com/allisson/tablegate/internal/errors"
)

// Entity store errors.
var (
	// ErrEntityNotFound indicates no record exists for the partition/row key
	// pair. Distinct from remote-store failures: callers can rely on it to
	// mean a definitive miss, not an outage.
	ErrEntityNotFound = errors.Wrap(errors.ErrNotFound, "entity not found")

	// ErrMissingPartitionKey indicates a record without a partition key.
	// Should not happen for parsed payloads, which receive the configured
	// default partition key.
	ErrMissingPartitionKey = errors.Wrap(errors.ErrInvalidInput, "record has no partition key")

	// ErrMissingRowKey indicates a payload that yields no row key: no RowKey
	// field and none of the fallback fields present.
	ErrMissingRowKey = errors.Wrap(errors.ErrInvalidInput, "record has no row key")

	// ErrMalformedPayload indicates upload content that cannot be parsed.
	ErrMalformedPayload = errors.Wrap(errors.ErrInvalidInput, "malformed payload")

	// ErrStagingNotFound indicates a staging handle that is unknown, already
	// consumed, or past its TTL. All three cases are indistinguishable.
	ErrStagingNotFound = errors.Wrap(errors.ErrNotFound, "staged payload not found")

	// ErrInvalidTableName indicates a table name outside the allowed charset.
	ErrInvalidTableName = errors.Wrap(errors.ErrInvalidInput, "invalid table name")

	// ErrInvalidFilter indicates a filter expression that cannot be parsed.
	ErrInvalidFilter = errors.Wrap(errors.ErrInvalidInput, "invalid filter expression")
)
