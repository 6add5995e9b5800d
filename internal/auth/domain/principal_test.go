package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/tablegate/internal/errors"
)

func TestPermissions_Allows(t *testing.T) {
	tests := []struct {
		name        string
		permissions Permissions
		capability  Capability
		expected    bool
	}{
		{"read allowed", Permissions{Read: true}, ReadCapability, true},
		{"read denied", Permissions{Write: true, Delete: true}, ReadCapability, false},
		{"write allowed", Permissions{Write: true}, WriteCapability, true},
		{"write denied", Permissions{Read: true}, WriteCapability, false},
		{"delete allowed", Permissions{Delete: true}, DeleteCapability, true},
		{"delete denied", Permissions{Read: true, Write: true}, DeleteCapability, false},
		{"unknown capability denied", Permissions{Read: true, Write: true, Delete: true}, Capability("rotate"), false},
		{"empty capability denied", Permissions{Read: true, Write: true, Delete: true}, Capability(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.permissions.Allows(tt.capability))
		})
	}
}

func TestRequire(t *testing.T) {
	readOnly := &Principal{
		Username:    "standard_user",
		Permissions: Permissions{Read: true},
	}

	t.Run("granted capability passes", func(t *testing.T) {
		assert.NoError(t, Require(readOnly, ReadCapability))
	})

	t.Run("missing capability is named in the error", func(t *testing.T) {
		err := Require(readOnly, WriteCapability)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), `"write"`)
		assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

		var denied *PermissionDeniedError
		assert.True(t, apperrors.As(err, &denied))
		assert.Equal(t, WriteCapability, denied.Capability)
	})

	t.Run("delete denial names delete", func(t *testing.T) {
		err := Require(readOnly, DeleteCapability)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), `"delete"`)
	})

	t.Run("nil principal is unauthorized", func(t *testing.T) {
		err := Require(nil, ReadCapability)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
	})
}

func TestTokenErrors_AreUnauthorized(t *testing.T) {
	for _, err := range []error{
		ErrInvalidCredentials,
		ErrTokenExpired,
		ErrTokenMalformed,
		ErrTokenInvalidSignature,
		ErrTokenMissingSubject,
	} {
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized), "expected %v to be unauthorized", err)
	}
	assert.True(t, apperrors.Is(ErrPrincipalNotFound, apperrors.ErrNotFound))
}
