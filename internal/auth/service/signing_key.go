package service

import (
	"context"
	"encoding/base64"

	"gocloud.dev/secrets"

	apperrors "github.com/allisson/tablegate/internal/errors"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// LoadSigningKey resolves the token signing key material at startup.
//
// When kmsKeyURI is empty the configured value is the key itself. Otherwise
// the value is treated as base64 ciphertext and decrypted through the KMS
// keeper selected by the URI (gcpkms://, awskms://, azurekeyvault://,
// hashivault://, base64key://), so the plaintext key never sits in the
// environment.
func LoadSigningKey(ctx context.Context, rawKey string, kmsKeyURI string) ([]byte, error) {
	if rawKey == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "token signing key is not configured")
	}

	if kmsKeyURI == "" {
		return []byte(rawKey), nil
	}

	ciphertext, err := base64.StdEncoding.DecodeString(rawKey)
	if err != nil {
		return nil, apperrors.Wrap(err, "token signing key is not valid base64 ciphertext")
	}

	keeper, err := secrets.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open KMS keeper")
	}
	defer keeper.Close()

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decrypt token signing key")
	}

	return plaintext, nil
}
