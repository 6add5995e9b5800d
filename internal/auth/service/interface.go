// Package service provides technical services for authentication operations.
//
// This package implements bearer token signing/verification and password
// hashing using industry-standard cryptographic practices.
package service

import "time"

// TokenService defines operations for issuing and verifying signed bearer tokens.
// Tokens are stateless: validity is determined solely by the signature and the
// embedded expiry, never by a server-side table.
type TokenService interface {
	// Issue creates a signed token for the given subject expiring after ttl.
	// Returns the serialized token and its absolute expiry time.
	Issue(subject string, ttl time.Duration) (token string, expiresAt time.Time, err error)

	// Verify checks a serialized token and returns its subject.
	//
	// Failures are mutually exclusive and exhaustive:
	//   - domain.ErrTokenExpired: expiry has passed (checked before signature,
	//     so an expired token never reads as tampering)
	//   - domain.ErrTokenMalformed: the token cannot be decoded
	//   - domain.ErrTokenInvalidSignature: decodes but the signature does not match
	//   - domain.ErrTokenMissingSubject: well signed but carries no subject
	Verify(token string) (subject string, err error)
}

// PasswordService defines operations for password hashing and verification.
// Implementations must use a one-way salted scheme with constant-time compare;
// plaintext passwords are never persisted or logged.
type PasswordService interface {
	// Hash hashes a plain text password.
	Hash(plainPassword string) (hashedPassword string, err error)

	// Verify compares a plain text password against a stored hash.
	// Returns true on match. Constant-time to prevent timing attacks.
	Verify(plainPassword string, hashedPassword string) bool
}
