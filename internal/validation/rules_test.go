package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/anonymizer/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	assert.NoError(t, WrapValidationError(nil))

	err := WrapValidationError(errors.New("data: cannot be blank."))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "data: cannot be blank.")
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, NoWhitespace.Validate("value"))
	assert.Error(t, NoWhitespace.Validate(" value"))
}

func TestUUID(t *testing.T) {
	assert.NoError(t, UUID.Validate("0190a5b2-6c1d-7e3f-8a9b-0c1d2e3f4a5b"))
	assert.Error(t, UUID.Validate("not-a-uuid"))
	assert.NoError(t, UUID.Validate(""))
}

func TestEncryptedMapEntries(t *testing.T) {
	tests := []struct {
		name      string
		value     interface{}
		shouldErr bool
	}{
		{"valid", map[string]string{"c2VhbGVk": "ANON_aaaaaaaa"}, false},
		{"empty map", map[string]string{}, false},
		{"wrong type", map[string]int{"a": 1}, true},
		{"nil map", map[string]string(nil), false},
		{"blank key", map[string]string{" ": "ANON_aaaaaaaa"}, false},
		{"padded key", map[string]string{"c2VhbGVk==": "ANON_aaaaaaaa"}, false},
		{"non base64 key", map[string]string{"no way!": "ANON_aaaaaaaa"}, false},
		{"blank value", map[string]string{"c2VhbGVk": ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EncryptedMapEntries.Validate(tt.value)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
