package domain

import (
	"github.com/allisson/anonymizer/internal/errors"
)

// Cryptographic error definitions.
//
// These wrap the standard errors from internal/errors so the HTTP layer can map
// them to status codes without knowing about cryptography.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates a decryption operation failed.
	//
	// The cause (wrong key, tampered ciphertext, bad nonce or AAD) is not disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrSharedSecretNotSet indicates ANONYMIZER_SECRET is empty.
	ErrSharedSecretNotSet = errors.New("shared secret is not set")

	// ErrSharedSecretTooShort indicates the shared secret is shorter than MinSharedSecretSize.
	ErrSharedSecretTooShort = errors.New("shared secret is too short")

	// ErrInvalidSharedSecretBase64 indicates a KMS-protected secret is not valid base64.
	ErrInvalidSharedSecretBase64 = errors.New("invalid base64 encoding for shared secret")

	// ErrKMSKeyURIRequired indicates KMS_PROVIDER was set without KMS_KEY_URI.
	ErrKMSKeyURIRequired = errors.New("kms key uri is required when kms provider is set")
)
