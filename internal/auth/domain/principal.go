// Package domain defines authentication and authorization domain models.
//
// Principals authenticate with username and password and carry a fixed
// capability triple {read, write, delete} controlling which entity-store
// operations they may perform. Principals are created out of band (CLI) and
// are immutable for the lifetime of a request.
package domain

import (
	"fmt"
	"time"
)

// Capability defines the types of operations that can be performed on the entity store.
type Capability string

const (
	// ReadCapability allows querying and fetching entity records.
	ReadCapability Capability = "read"

	// WriteCapability allows publishing (upserting) entity records.
	WriteCapability Capability = "write"

	// DeleteCapability allows removing entity records.
	DeleteCapability Capability = "delete"
)

// Permissions is the capability triple attached to a principal.
// It is derived once from the stored principal and never mutated afterwards.
type Permissions struct {
	Read   bool `json:"read"`
	Write  bool `json:"write"`
	Delete bool `json:"delete"`
}

// Allows reports whether the triple grants the given capability.
func (p Permissions) Allows(capability Capability) bool {
	switch capability {
	case ReadCapability:
		return p.Read
	case WriteCapability:
		return p.Write
	case DeleteCapability:
		return p.Delete
	default:
		return false
	}
}

// Principal represents an authenticated identity with its capability triple.
type Principal struct {
	Username     string      // Unique identifier, the token subject
	PasswordHash string      //nolint:gosec // Argon2id hash, never plaintext
	Permissions  Permissions // Capability triple gating store operations
	Email        string      // Optional contact info
	CreatedAt    time.Time
}

// PermissionDeniedError reports a missing capability by name so an operator
// can diagnose the denial without guessing.
type PermissionDeniedError struct {
	Capability Capability
}

// Error implements the error interface.
func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("access denied: missing %q capability", string(e.Capability))
}

// Unwrap allows errors.Is matching against the generic forbidden sentinel.
func (e *PermissionDeniedError) Unwrap() error {
	return errForbidden
}

// Require is the single gating function for capability checks. Every store
// operation must pass through it before performing any I/O. It returns a
// PermissionDeniedError naming the missing capability when the principal's
// triple does not grant it.
func Require(principal *Principal, capability Capability) error {
	if principal == nil {
		return errUnauthorized
	}
	if !principal.Permissions.Allows(capability) {
		return &PermissionDeniedError{Capability: capability}
	}
	return nil
}

// CreatePrincipalInput contains the parameters for creating a new principal.
// Principal creation happens out of band (CLI), never through the HTTP surface.
type CreatePrincipalInput struct {
	Username    string
	Password    string
	Permissions Permissions
	Email       string
}

// TokenOutput is the result of a successful login.
type TokenOutput struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}
