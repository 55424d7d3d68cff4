package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
	cryptoService "github.com/allisson/anonymizer/internal/crypto/service"
)

// MapCipher encrypts the original-value side of a substitution map.
//
// Each entry is sealed with the token as AAD, so a ciphertext cannot be re-paired
// with another token. The encoded form is base64url(nonce || ciphertext).
type MapCipher struct {
	aead   cryptoService.AEAD
	logger *slog.Logger
}

// NewMapCipher creates a MapCipher over aead.
func NewMapCipher(aead cryptoService.AEAD, logger *slog.Logger) *MapCipher {
	return &MapCipher{aead: aead, logger: logger}
}

// Encrypt returns the wire form of subs, keyed by encrypted original with the token as value.
func (c *MapCipher) Encrypt(subs *anonymizationDomain.SubstitutionMap) (anonymizationDomain.EncryptedMap, error) {
	encrypted := make(anonymizationDomain.EncryptedMap, subs.Len())

	for _, entry := range subs.Entries() {
		ciphertext, nonce, err := c.aead.Encrypt([]byte(entry.Original), []byte(entry.Token))
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt map entry: %w", err)
		}

		sealed := make([]byte, 0, len(nonce)+len(ciphertext))
		sealed = append(sealed, nonce...)
		sealed = append(sealed, ciphertext...)
		encrypted[base64.RawURLEncoding.EncodeToString(sealed)] = entry.Token
	}

	return encrypted, nil
}

// Decrypt rebuilds the substitution map from its wire form.
//
// Decryption is best effort: entries that fail to decode, fail authentication or
// conflict with an earlier entry are logged and skipped. The number of skipped
// entries is returned alongside the map.
func (c *MapCipher) Decrypt(encrypted anonymizationDomain.EncryptedMap) (*anonymizationDomain.SubstitutionMap, int) {
	subs := anonymizationDomain.NewSubstitutionMap(nil)
	dropped := 0

	for _, key := range slices.Sorted(maps.Keys(encrypted)) {
		token := encrypted[key]

		original, err := c.open(key, token)
		if err == nil {
			err = subs.Put(original, token)
		}
		if err != nil {
			dropped++
			c.logger.Warn("dropping anonymization map entry",
				slog.String("token", token),
				slog.String("reason", err.Error()),
			)
		}
	}

	return subs, dropped
}

var errMalformedEntry = errors.New("malformed map entry")

func (c *MapCipher) open(key, token string) (string, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(key)
	if err != nil {
		return "", fmt.Errorf("%w: invalid encoding", errMalformedEntry)
	}

	nonceSize := c.aead.NonceSize()
	if len(sealed) < nonceSize {
		return "", fmt.Errorf("%w: too short", errMalformedEntry)
	}

	plaintext, err := c.aead.Decrypt(sealed[nonceSize:], sealed[:nonceSize], []byte(token))
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
