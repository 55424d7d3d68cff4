// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/anonymizer/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// UUID validates that a string parses as a UUID.
var UUID = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	},
	validation.NewError("validation_uuid", "must be a valid UUID"),
)

// EncryptedMapEntries validates that an anonymization map is an object of strings.
// Entry contents are not checked: entries that fail to decode or authenticate are
// dropped during decryption so the remaining entries can still be restored.
var EncryptedMapEntries = validation.By(func(value interface{}) error {
	if _, ok := value.(map[string]string); !ok {
		return validation.NewError("validation_map_type", "must be an object of strings")
	}
	return nil
})
