package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authDomain "github.com/allisson/tablegate/internal/auth/domain"
	apperrors "github.com/allisson/tablegate/internal/errors"
)

// minSigningKeyBytes is the minimum HS256 key length accepted at startup.
const minSigningKeyBytes = 32

// jwtTokenService implements TokenService using HMAC-SHA256 signed JWTs.
type jwtTokenService struct {
	signingKey []byte
}

// NewTokenService creates a TokenService signing HS256 JWTs with the given key.
// Returns an error if the key is shorter than 256 bits; a weak signing key is
// a fatal misconfiguration, not something to limp along with.
func NewTokenService(signingKey []byte) (TokenService, error) {
	if len(signingKey) < minSigningKeyBytes {
		return nil, apperrors.Wrapf(
			apperrors.ErrInvalidInput,
			"token signing key must be at least %d bytes, got %d",
			minSigningKeyBytes, len(signingKey),
		)
	}
	return &jwtTokenService{signingKey: signingKey}, nil
}

// Issue creates a signed token with the subject and an absolute expiry.
func (s *jwtTokenService) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(err, "failed to sign token")
	}

	return token, expiresAt, nil
}

// Verify decodes and validates a token, returning its subject.
//
// Expiry is checked on the decoded (unverified) claims before the signature so
// that an expired token is always reported as expired, regardless of whether
// its signature would also fail. Callers use this to keep expired tokens out
// of tampering logs.
func (s *jwtTokenService) Verify(tokenString string) (string, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	// Decode without signature verification to get at the expiry claim.
	unverified := &jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, unverified); err != nil {
		return "", authDomain.ErrTokenMalformed
	}

	// A token without an expiry was never issued by us.
	if unverified.ExpiresAt == nil {
		return "", authDomain.ErrTokenMalformed
	}
	if !time.Now().UTC().Before(unverified.ExpiresAt.Time) {
		return "", authDomain.ErrTokenExpired
	}

	// Full parse: signature and claim validation.
	claims := &jwt.RegisteredClaims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return "", authDomain.ErrTokenInvalidSignature
		}
		return "", authDomain.ErrTokenMalformed
	}

	if claims.Subject == "" {
		return "", authDomain.ErrTokenMissingSubject
	}

	return claims.Subject, nil
}
