package store

import (
	"database/sql"
	"encoding/json"

	"github.com/allisson/tablegate/internal/entity/domain"
	"github.com/allisson/tablegate/internal/entity/filter"
)

// Iterator streams query results one record at a time. Filtering and
// projection happen here, client-side, so both drivers behave identically and
// the full result set is never held in memory.
//
// Usage:
//
//	it, err := table.Query(ctx, query)
//	if err != nil { ... }
//	defer it.Close()
//	for it.Next() {
//	    record := it.Record()
//	    ...
//	}
//	if err := it.Err(); err != nil { ... }
type Iterator struct {
	rows    *sql.Rows
	expr    filter.Expr
	fields  []string
	current domain.Record
	err     error
}

func newIterator(rows *sql.Rows, expr filter.Expr, fields []string) *Iterator {
	return &Iterator{
		rows:   rows,
		expr:   expr,
		fields: fields,
	}
}

// Next advances to the next matching record. Returns false when the stream is
// exhausted or a scan error occurred; check Err afterwards.
func (it *Iterator) Next() bool {
	if it.err != nil {
		return false
	}

	for it.rows.Next() {
		var (
			partitionKey string
			rowKey       string
			attributes   []byte
		)
		if err := it.rows.Scan(&partitionKey, &rowKey, &attributes); err != nil {
			it.err = wrapStoreError(err, "failed to scan entity row")
			return false
		}

		record := domain.Record{}
		if len(attributes) > 0 {
			if err := json.Unmarshal(attributes, &record); err != nil {
				it.err = wrapStoreError(err, "failed to decode entity attributes")
				return false
			}
		}
		record[domain.PartitionKeyField] = partitionKey
		record[domain.RowKeyField] = rowKey

		if !it.expr.Eval(record) {
			continue
		}

		it.current = record.Project(it.fields)
		return true
	}

	it.err = wrapStoreError(it.rows.Err(), "failed to iterate entity rows")
	return false
}

// Record returns the record produced by the last successful Next.
func (it *Iterator) Record() domain.Record {
	return it.current
}

// Err returns the first error encountered while iterating, if any.
func (it *Iterator) Err() error {
	return it.err
}

// Close releases the underlying rows. Safe to call at any point.
func (it *Iterator) Close() error {
	return it.rows.Close()
}
