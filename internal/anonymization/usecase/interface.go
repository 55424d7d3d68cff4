// Package usecase defines interfaces and implementations for anonymization use cases.
// Wraps the anonymizer with optional session persistence so callers can keep the
// encrypted map server-side between the anonymize and deanonymize calls.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
)

// SessionRepository defines the interface for anonymization session persistence.
type SessionRepository interface {
	Create(ctx context.Context, session *anonymizationDomain.Session) error
	Get(ctx context.Context, sessionID uuid.UUID) (*anonymizationDomain.Session, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error

	// DeleteExpired deletes sessions that expired before the specified timestamp.
	// Returns the number of deleted sessions. All timestamps are expected in UTC.
	DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error)

	// CountExpired counts sessions that expired before the specified timestamp without deleting them.
	CountExpired(ctx context.Context, olderThan time.Time) (int64, error)
}

// AnonymizationUseCase defines the interface for anonymization operations.
type AnonymizationUseCase interface {
	// Anonymize replaces PII in data with tokens. When persist is true the encrypted
	// map is also stored as a session that expires after the configured TTL.
	Anonymize(ctx context.Context, data any, persist bool) (*anonymizationDomain.AnonymizeResult, error)

	// Deanonymize restores tokens in input.Data using either input.Map or the map of
	// the session input.SessionID. Returns ErrSessionNotFound or ErrSessionExpired for
	// unusable sessions.
	Deanonymize(
		ctx context.Context,
		input *anonymizationDomain.DeanonymizeInput,
	) (*anonymizationDomain.DeanonymizeResult, error)

	// DeleteSession removes a persisted session.
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error

	// CleanupExpired deletes sessions that expired more than the specified number of days ago.
	// Returns the number of deleted sessions. Use dryRun=true to preview count without deletion.
	CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error)
}
