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

// mySQLStore implements Store for MySQL.
type mySQLStore struct {
	db *sql.DB
}

// Open returns a handle to the named table, creating it when absent.
func (s *mySQLStore) Open(ctx context.Context, tableName string) (Table, error) {
	if err := ValidateTableName(tableName); err != nil {
		return nil, err
	}

	// tableName is validated against a strict identifier charset above.
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		partition_key VARCHAR(255) NOT NULL,
		row_key VARCHAR(255) NOT NULL,
		attributes JSON NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (partition_key, row_key)
	)`, tableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return nil, wrapStoreError(err, fmt.Sprintf("failed to open table %s", tableName))
	}

	return &mySQLTable{db: s.db, tableName: tableName}, nil
}

// mySQLTable implements Table for MySQL.
type mySQLTable struct {
	db        *sql.DB
	tableName string
}

// Query streams records matching the query.
func (t *mySQLTable) Query(ctx context.Context, query domain.Query) (*Iterator, error) {
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
func (t *mySQLTable) Get(ctx context.Context, partitionKey, rowKey string) (domain.Record, error) {
	stmt := fmt.Sprintf(
		`SELECT attributes FROM %s WHERE partition_key = ? AND row_key = ?`,
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
func (t *mySQLTable) Upsert(ctx context.Context, record domain.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	attributes, err := json.Marshal(record.Attributes())
	if err != nil {
		return wrapStoreError(err, "failed to encode entity attributes")
	}

	stmt := fmt.Sprintf(`INSERT INTO %s (partition_key, row_key, attributes)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE attributes = VALUES(attributes)`, t.tableName)

	if _, err := t.db.ExecContext(ctx, stmt, record.PartitionKey(), record.RowKey(), attributes); err != nil {
		return wrapStoreError(err, "failed to upsert entity")
	}
	return nil
}

// Delete removes a record, reporting ErrEntityNotFound when nothing matched.
func (t *mySQLTable) Delete(ctx context.Context, partitionKey, rowKey string) error {
	stmt := fmt.Sprintf(
		`DELETE FROM %s WHERE partition_key = ? AND row_key = ?`,
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
