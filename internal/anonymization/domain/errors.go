package domain

import (
	"github.com/allisson/anonymizer/internal/errors"
)

var (
	// ErrUnsupportedValue indicates a value of a type that has no JSON representation.
	ErrUnsupportedValue = errors.Wrap(errors.ErrInvalidInput, "unsupported value type")

	// ErrCyclicValue indicates the input references itself.
	ErrCyclicValue = errors.Wrap(errors.ErrInvalidInput, "cyclic value")

	// ErrMaxDepthExceeded indicates the input is nested deeper than MaxDepth.
	ErrMaxDepthExceeded = errors.Wrap(errors.ErrInvalidInput, "maximum nesting depth exceeded")

	// ErrDuplicateKey indicates two object keys became the same key after substitution.
	ErrDuplicateKey = errors.Wrap(errors.ErrInvalidInput, "object keys collide after substitution")

	// ErrInvalidRestoreMode indicates an unknown restore mode was configured.
	ErrInvalidRestoreMode = errors.Wrap(errors.ErrInvalidInput, "invalid restore mode")

	// ErrInvalidTokenFormat indicates the token prefix or length cannot produce word-shaped tokens.
	ErrInvalidTokenFormat = errors.Wrap(errors.ErrInvalidInput, "invalid token format")

	// ErrDuplicateToken indicates a token is already mapped to a different original value.
	ErrDuplicateToken = errors.Wrap(errors.ErrConflict, "token already mapped to another value")

	// ErrDuplicateOriginal indicates an original value is already mapped to a different token.
	ErrDuplicateOriginal = errors.Wrap(errors.ErrConflict, "value already mapped to another token")

	// ErrTokenGenerationFailed indicates no unused token could be generated.
	ErrTokenGenerationFailed = errors.New("failed to generate unique token")

	// ErrMapSourceRequired indicates neither an anonymization map nor a session id was given.
	ErrMapSourceRequired = errors.Wrap(errors.ErrInvalidInput, "anonymization map or session id is required")

	// ErrAmbiguousMapSource indicates both an anonymization map and a session id were given.
	ErrAmbiguousMapSource = errors.Wrap(
		errors.ErrInvalidInput,
		"provide either an anonymization map or a session id, not both",
	)

	// ErrSessionNotFound indicates the anonymization session was not found.
	ErrSessionNotFound = errors.Wrap(errors.ErrNotFound, "anonymization session not found")

	// ErrSessionExpired indicates the anonymization session is past its expiration time.
	ErrSessionExpired = errors.Wrap(errors.ErrGone, "anonymization session has expired")
)
