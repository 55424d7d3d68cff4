package domain

import (
	"context"
	"encoding/base64"
	"fmt"
)

// SharedSecret is the process-wide secret protecting substitution maps.
//
// It is loaded once at startup and never mutated afterwards. Call Close on
// shutdown to wipe the key material.
type SharedSecret struct {
	key []byte
}

// NewSharedSecret copies raw into a new SharedSecret. Empty or short secrets are rejected.
func NewSharedSecret(raw []byte) (*SharedSecret, error) {
	if len(raw) == 0 {
		return nil, ErrSharedSecretNotSet
	}
	if len(raw) < MinSharedSecretSize {
		return nil, fmt.Errorf(
			"%w: must be at least %d bytes, got %d",
			ErrSharedSecretTooShort,
			MinSharedSecretSize,
			len(raw),
		)
	}

	key := make([]byte, len(raw))
	copy(key, raw)
	return &SharedSecret{key: key}, nil
}

// LoadSharedSecret builds the SharedSecret from its configured value.
//
// Without a keeper the value is used as-is. With a keeper the value must be the
// base64-encoded KMS ciphertext produced by the create-secret command.
func LoadSharedSecret(ctx context.Context, value string, keeper KMSKeeper) (*SharedSecret, error) {
	if value == "" {
		return nil, ErrSharedSecretNotSet
	}

	if keeper == nil {
		return NewSharedSecret([]byte(value))
	}

	ciphertext, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSharedSecretBase64, err)
	}

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt shared secret with kms: %w", err)
	}
	defer Zero(plaintext)

	return NewSharedSecret(plaintext)
}

// Bytes returns the secret key material. Callers must not modify it.
func (s *SharedSecret) Bytes() []byte {
	return s.key
}

// Close wipes the secret from memory.
func (s *SharedSecret) Close() {
	Zero(s.key)
	s.key = nil
}
