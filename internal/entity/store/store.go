// Package store adapts relational databases into a partitioned key-value
// entity store.
//
// Records live in tables keyed by (partition_key, row_key) with their
// free-form attributes serialized as JSON. Tables are created on first open,
// upserts replace whole records, and queries stream rows through a
// client-side filter so both supported drivers evaluate expressions
// identically.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"regexp"
	"sync"

	"github.com/allisson/tablegate/internal/database"
	"github.com/allisson/tablegate/internal/entity/domain"

	apperrors "github.com/allisson/tablegate/internal/errors"
)

// tableNameRe bounds table names to a safe identifier charset. Table names are
// interpolated into DDL and DML, so nothing outside this set is ever accepted.
var tableNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,62}$`)

// Store opens tables on a single database target.
type Store interface {
	// Open returns a handle to the named table, creating it when absent.
	Open(ctx context.Context, tableName string) (Table, error)
}

// Table performs record operations against one entity table.
type Table interface {
	// Query streams records matching the query. The caller must Close the
	// iterator.
	Query(ctx context.Context, query domain.Query) (*Iterator, error)

	// Get fetches a single record by partition and row key.
	// Returns ErrEntityNotFound on a definitive miss; remote failures
	// surface as distinct errors.
	Get(ctx context.Context, partitionKey, rowKey string) (domain.Record, error)

	// Upsert inserts the record or replaces an existing one wholesale.
	Upsert(ctx context.Context, record domain.Record) error

	// Delete removes a record. Returns ErrEntityNotFound when no record
	// matched.
	Delete(ctx context.Context, partitionKey, rowKey string) error
}

// Target identifies a database the entity store connects to. Requests may
// address different targets; the manager pools a connection per distinct one.
type Target struct {
	Driver           string
	ConnectionString string
}

// ValidateTableName rejects table names outside the allowed charset.
func ValidateTableName(name string) error {
	if !tableNameRe.MatchString(name) {
		return apperrors.Wrap(domain.ErrInvalidTableName, fmt.Sprintf("%q", name))
	}
	return nil
}

// NewStore returns a Store for the given open connection.
func NewStore(driverName string, db *sql.DB) (Store, error) {
	switch driverName {
	case "postgres":
		return &postgreSQLStore{db: db}, nil
	case "mysql":
		return &mySQLStore{db: db}, nil
	default:
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput,
			fmt.Sprintf("unsupported entity store driver %q", driverName))
	}
}

// Manager memoizes one pooled connection per target so repeated requests
// against the same database reuse it.
type Manager struct {
	mu          sync.Mutex
	connections map[Target]*sql.DB
	dbConfig    database.Config
}

// NewManager creates a connection manager. The config's pool settings apply
// to every target; driver and connection string come from the target itself.
func NewManager(dbConfig database.Config) *Manager {
	return &Manager{
		connections: make(map[Target]*sql.DB),
		dbConfig:    dbConfig,
	}
}

// Store returns a Store for the target, connecting on first use.
func (m *Manager) Store(ctx context.Context, target Target) (Store, error) {
	db, err := m.connect(target)
	if err != nil {
		return nil, wrapStoreError(err, "failed to connect to entity store")
	}
	return NewStore(target.Driver, db)
}

func (m *Manager) connect(target Target) (*sql.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if db, ok := m.connections[target]; ok {
		return db, nil
	}

	cfg := m.dbConfig
	cfg.Driver = target.Driver
	cfg.ConnectionString = target.ConnectionString

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	m.connections[target] = db
	return db, nil
}

// Close closes every pooled connection. Later Store calls reconnect.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for target, db := range m.connections {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.connections, target)
	}
	return firstErr
}

// wrapStoreError classifies a database failure. Transient conditions
// (cancelled contexts, dead connections, network faults) wrap ErrUnavailable
// so callers can signal retryability; everything else keeps its identity and
// gains context.
func wrapStoreError(err error, message string) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, driver.ErrBadConn),
		errors.As(err, &netErr):
		return fmt.Errorf("%w: %s: %w", apperrors.ErrUnavailable, message, err)
	default:
		return apperrors.Wrap(err, message)
	}
}
