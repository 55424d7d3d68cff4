// Package service implements PII detection, token generation, substitution map
// encryption and the recursive anonymize/deanonymize walk.
package service

import (
	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
)

// TokenGenerator defines the interface for random alphanumeric token generation.
type TokenGenerator interface {
	Generate(length int) (string, error)
	Validate(token string) error
}

// Anonymizer defines the anonymize/deanonymize walk over JSON-like values.
type Anonymizer interface {
	// Anonymize returns a deep copy of value with PII replaced by tokens, plus the encrypted map.
	Anonymize(value any) (*anonymizationDomain.AnonymizeResult, error)

	// Deanonymize returns a deep copy of value with every known token restored.
	Deanonymize(
		value any,
		encrypted anonymizationDomain.EncryptedMap,
	) (*anonymizationDomain.DeanonymizeResult, error)
}
