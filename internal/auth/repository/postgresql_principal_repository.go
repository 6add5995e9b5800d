// Package repository provides data persistence implementations for principals.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/allisson/tablegate/internal/auth/domain"

	apperrors "github.com/allisson/tablegate/internal/errors"
)

// PostgreSQLPrincipalRepository handles principal persistence for PostgreSQL
type PostgreSQLPrincipalRepository struct {
	db *sql.DB
}

// NewPostgreSQLPrincipalRepository creates a new PostgreSQLPrincipalRepository
func NewPostgreSQLPrincipalRepository(db *sql.DB) *PostgreSQLPrincipalRepository {
	return &PostgreSQLPrincipalRepository{
		db: db,
	}
}

// Create inserts a new principal
func (r *PostgreSQLPrincipalRepository) Create(ctx context.Context, principal *domain.Principal) error {
	query := `INSERT INTO principals (username, password_hash, can_read, can_write, can_delete, email, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	_, err := r.db.ExecContext(ctx, query,
		principal.Username,
		principal.PasswordHash,
		principal.Permissions.Read,
		principal.Permissions.Write,
		principal.Permissions.Delete,
		nullableString(principal.Email),
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrPrincipalAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create principal")
	}
	return nil
}

// GetByUsername retrieves a principal by username
func (r *PostgreSQLPrincipalRepository) GetByUsername(ctx context.Context, username string) (*domain.Principal, error) {
	var (
		principal domain.Principal
		email     sql.NullString
	)

	query := `SELECT username, password_hash, can_read, can_write, can_delete, email, created_at
			  FROM principals WHERE username = $1`

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

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
