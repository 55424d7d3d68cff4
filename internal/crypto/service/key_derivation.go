package service

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/anonymizer/internal/crypto/domain"
)

// MapKeyInfo is the HKDF info label for the substitution map encryption key.
// Versioned so a future change of scheme derives an unrelated key.
const MapKeyInfo = "anonymization-map-v1"

// DeriveKey uses HKDF-SHA256 to derive a 32-byte cipher key from the shared secret.
func DeriveKey(secret []byte, info string) ([]byte, error) {
	if len(secret) == 0 {
		return nil, cryptoDomain.ErrSharedSecretNotSet
	}

	reader := hkdf.New(sha256.New, secret, nil, []byte(info))

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	return key, nil
}

// NewMapCipher derives the map key from the shared secret and returns the AEAD for alg.
// The derived key is wiped once the cipher holds its own expanded copy.
func NewMapCipher(manager AEADManager, secret *cryptoDomain.SharedSecret, alg cryptoDomain.Algorithm) (AEAD, error) {
	key, err := DeriveKey(secret.Bytes(), MapKeyInfo)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	return manager.CreateCipher(key, alg)
}
