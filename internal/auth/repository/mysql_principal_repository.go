package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/allisson/tablegate/internal/auth/domain"

	apperrors "github.com/allisson/tablegate/internal/errors"
)

// MySQLPrincipalRepository handles principal persistence for MySQL
type MySQLPrincipalRepository struct {
	db *sql.DB
}

// NewMySQLPrincipalRepository creates a new MySQLPrincipalRepository
func NewMySQLPrincipalRepository(db *sql.DB) *MySQLPrincipalRepository {
	return &MySQLPrincipalRepository{
		db: db,
	}
}

// Create inserts a new principal
func (r *MySQLPrincipalRepository) Create(ctx context.Context, principal *domain.Principal) error {
	query := `INSERT INTO principals (username, password_hash, can_read, can_write, can_delete, email, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, NOW())`

	_, err := r.db.ExecContext(ctx, query,
		principal.Username,
		principal.PasswordHash,
		principal.Permissions.Read,
		principal.Permissions.Write,
		principal.Permissions.Delete,
		nullableString(principal.Email),
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrPrincipalAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create principal")
	}
	return nil
}

// GetByUsername retrieves a principal by username
func (r *MySQLPrincipalRepository) GetByUsername(ctx context.Context, username string) (*domain.Principal, error) {
	var (
		principal domain.Principal
		email     sql.NullString
	)

	query := `SELECT username, password_hash, can_read, can_write, can_delete, email, created_at
			  FROM principals WHERE username = ?`

	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&principal.Username,
		&principal.PasswordHash,
		&principal.Permissions.Read,
		&principal.Permissions.Write,
		&principal.Permissions.Delete,
		&email,
		&principal.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get principal by username")
	}
	principal.Email = email.String

	return &principal, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "error 1062")
}
