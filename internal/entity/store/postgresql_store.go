package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/allisson/tablegate/internal/entity/domain"
	"github.com/allisson/tablegate/internal/entity/filter"
)

// postgreSQLStore implements Store for PostgreSQL.
type postgreSQLStore struct {
	db *sql.DB
}

// Open returns a handle to the named table, creating it when absent.
func (s *postgreSQLStore) Open(ctx context.Context, tableName string) (Table, error) {
	if err := ValidateTableName(tableName); err != nil {
		return nil, err
	}

	// tableName is validated against a strict identifier charset above.
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		partition_key VARCHAR(255) NOT NULL,
		row_key VARCHAR(255) NOT NULL,
		attributes JSONB NOT NULL DEFAULT '{}',
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		PRIMARY KEY (partition_key, row_key)
	)`, tableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return nil, wrapStoreError(err, fmt.Sprintf("failed to open table %s", tableName))
	}

	return &postgreSQLTable{db: s.db, tableName: tableName}, nil
}

// postgreSQLTable implements Table for PostgreSQL.
type postgreSQLTable struct {
	db        *sql.DB
	tableName string
}

// Query streams records matching the query.
func (t *postgreSQLTable) Query(ctx context.Context, query domain.Query) (*Iterator, error) {
	expr, err := filter.Parse(query.Filter)
	if err != nil {
		return nil, err
	}

	stmt := fmt.Sprintf(
		`SELECT partition_key, row_key, attributes FROM %s ORDER BY partition_key, row_key`,
		t.tableName,
	)
	rows, err := t.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, wrapStoreError(err, "failed to query entities")
	}

	return newIterator(rows, expr, query.Fields), nil
}

// Get fetches a single record by partition and row key.
func (t *postgreSQLTable) Get(ctx context.Context, partitionKey, rowKey string) (domain.Record, error) {
	stmt := fmt.Sprintf(
		`SELECT attributes FROM %s WHERE partition_key = $1 AND row_key = $2`,
		t.tableName,
	)

	var attributes []byte
	err := t.db.QueryRowContext(ctx, stmt, partitionKey, rowKey).Scan(&attributes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEntityNotFound
		}
		return nil, wrapStoreError(err, "failed to get entity")
	}

	return buildRecord(partitionKey, rowKey, attributes)
}

// Upsert inserts the record or replaces an existing one wholesale.
func (t *postgreSQLTable) Upsert(ctx context.Context, record domain.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	attributes, err := json.Marshal(record.Attributes())
	if err != nil {
		return wrapStoreError(err, "failed to encode entity attributes")
	}

	stmt := fmt.Sprintf(`INSERT INTO %s (partition_key, row_key, attributes, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (partition_key, row_key)
		DO UPDATE SET attributes = EXCLUDED.attributes, updated_at = NOW()`, t.tableName)

	if _, err := t.db.ExecContext(ctx, stmt, record.PartitionKey(), record.RowKey(), attributes); err != nil {
		return wrapStoreError(err, "failed to upsert entity")
	}
	return nil
}

// Delete removes a record, reporting ErrEntityNotFound when nothing matched.
func (t *postgreSQLTable) Delete(ctx context.Context, partitionKey, rowKey string) error {
	stmt := fmt.Sprintf(
		`DELETE FROM %s WHERE partition_key = $1 AND row_key = $2`,
		t.tableName,
	)

	result, err := t.db.ExecContext(ctx, stmt, partitionKey, rowKey)
	if err != nil {
		return wrapStoreError(err, "failed to delete entity")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrapStoreError(err, "failed to read delete result")
	}
	if affected == 0 {
		return domain.ErrEntityNotFound
	}
	return nil
}

// buildRecord assembles a full record from its storage form.
func buildRecord(partitionKey, rowKey string, attributes []byte) (domain.Record, error) {
	record := domain.Record{}
	if len(attributes) > 0 {
		if err := json.Unmarshal(attributes, &record); err != nil {
			return nil, wrapStoreError(err, "failed to decode entity attributes")
		}
	}
	record[domain.PartitionKeyField] = partitionKey
	record[domain.RowKeyField] = rowKey
	return record, nil
}
