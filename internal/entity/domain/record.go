// Package domain defines the entity-store domain model.
//
// A record is a flat map of string attributes addressed by a partition key and
// a row key. The pair uniquely identifies a record inside a table; writing to
// an existing pair replaces the record wholesale.
package domain

// Well-known record fields. Every record carries both; all other fields are
// free-form attributes.
const (
	PartitionKeyField = "PartitionKey"
	RowKeyField       = "RowKey"
)

// Record is a single entity: string attributes keyed by field name, always
// including PartitionKey and RowKey.
type Record map[string]string

// PartitionKey returns the record's partition key, or "" when unset.
func (r Record) PartitionKey() string {
	return r[PartitionKeyField]
}

// RowKey returns the record's row key, or "" when unset.
func (r Record) RowKey() string {
	return r[RowKeyField]
}

// Validate checks that the record is addressable.
func (r Record) Validate() error {
	if r.PartitionKey() == "" {
		return ErrMissingPartitionKey
	}
	if r.RowKey() == "" {
		return ErrMissingRowKey
	}
	return nil
}

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Project returns a copy limited to the given fields. Fields absent from the
// record are silently skipped. An empty field list returns a full clone.
func (r Record) Project(fields []string) Record {
	if len(fields) == 0 {
		return r.Clone()
	}
	out := make(Record, len(fields))
	for _, f := range fields {
		if v, ok := r[f]; ok {
			out[f] = v
		}
	}
	return out
}

// Attributes returns a copy of the record without the addressing fields.
func (r Record) Attributes() Record {
	out := make(Record, len(r))
	for k, v := range r {
		if k == PartitionKeyField || k == RowKeyField {
			continue
		}
		out[k] = v
	}
	return out
}

// Query selects records from a table: an optional filter expression and an
// optional projection. A zero Query matches every record with all fields.
type Query struct {
	// Filter is a boolean expression over record fields
	// (e.g. "PartitionKey eq 'pkey' and color eq 'blue'"). Empty matches all.
	Filter string

	// Fields limits the returned attributes. Empty returns everything.
	Fields []string
}
