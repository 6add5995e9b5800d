package domain

import (
	"github.com/allisson/tablegate/internal/errors"
)

// Local aliases so typed errors in this package can unwrap to the shared sentinels.
var (
	errUnauthorized = errors.ErrUnauthorized
	errForbidden    = errors.ErrForbidden
)

// Authentication and authorization errors.
var (
	// ErrPrincipalNotFound indicates no principal exists for the given username.
	// Never exposed externally: callers collapse it into ErrInvalidCredentials.
	ErrPrincipalNotFound = errors.Wrap(errors.ErrNotFound, "principal not found")

	// ErrPrincipalAlreadyExists indicates a principal with the same username
	// already exists.
	ErrPrincipalAlreadyExists = errors.Wrap(errors.ErrConflict, "principal already exists")

	// ErrInvalidCredentials covers both unknown usernames and wrong passwords,
	// deliberately indistinguishable to prevent username enumeration.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrTokenExpired indicates the token's expiry has passed. It is the one
	// verification failure that is not evidence of tampering.
	ErrTokenExpired = errors.Wrap(errors.ErrUnauthorized, "token expired")

	// ErrTokenMalformed indicates the token could not be decoded at all.
	ErrTokenMalformed = errors.Wrap(errors.ErrUnauthorized, "token malformed")

	// ErrTokenInvalidSignature indicates the token decodes but its signature
	// does not match the process signing key.
	ErrTokenInvalidSignature = errors.Wrap(errors.ErrUnauthorized, "token signature invalid")

	// ErrTokenMissingSubject indicates a well-signed token without a subject claim.
	ErrTokenMissingSubject = errors.Wrap(errors.ErrUnauthorized, "token has no subject")
)
