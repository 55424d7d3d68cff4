package domain

// Algorithm represents the AEAD algorithm used to protect substitution map entries.
//
// Both algorithms take a 256-bit key, a 12-byte nonce and append a 16-byte tag.
// AESGCM is the better choice on CPUs with AES-NI; ChaCha20 is constant-time in software.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm converts a configuration value into an Algorithm.
func ParseAlgorithm(value string) (Algorithm, error) {
	switch Algorithm(value) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}

const (
	// KeySize is the length in bytes of every derived cipher key.
	KeySize = 32

	// MinSharedSecretSize is the minimum accepted length of the shared secret in bytes.
	MinSharedSecretSize = 16
)
