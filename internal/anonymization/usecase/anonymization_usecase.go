package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
	anonymizationService "github.com/allisson/anonymizer/internal/anonymization/service"
	"github.com/allisson/anonymizer/internal/database"
	apperrors "github.com/allisson/anonymizer/internal/errors"
)

// anonymizationUseCase implements AnonymizationUseCase.
type anonymizationUseCase struct {
	txManager   database.TxManager
	sessionRepo SessionRepository
	anonymizer  anonymizationService.Anonymizer
	sessionTTL  time.Duration
}

// Anonymize replaces PII in data with tokens and optionally persists the map.
func (a *anonymizationUseCase) Anonymize(
	ctx context.Context,
	data any,
	persist bool,
) (*anonymizationDomain.AnonymizeResult, error) {
	result, err := a.anonymizer.Anonymize(data)
	if err != nil {
		return nil, err
	}

	if !persist {
		return result, nil
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate session id")
	}

	now := time.Now().UTC()
	session := &anonymizationDomain.Session{
		ID:           id,
		EncryptedMap: result.Map,
		EntryCount:   result.Entries,
		CreatedAt:    now,
		ExpiresAt:    now.Add(a.sessionTTL),
	}

	if err := a.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	result.Session = session
	return result, nil
}

// Deanonymize restores tokens using the provided map or a persisted session.
func (a *anonymizationUseCase) Deanonymize(
	ctx context.Context,
	input *anonymizationDomain.DeanonymizeInput,
) (*anonymizationDomain.DeanonymizeResult, error) {
	if input.SessionID == nil {
		if input.Map == nil {
			return nil, anonymizationDomain.ErrMapSourceRequired
		}
		return a.anonymizer.Deanonymize(input.Data, input.Map)
	}
	if input.Map != nil {
		return nil, anonymizationDomain.ErrAmbiguousMapSource
	}

	var result *anonymizationDomain.DeanonymizeResult
	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		session, err := a.sessionRepo.Get(ctx, *input.SessionID)
		if err != nil {
			return err
		}
		if session.IsExpired() {
			return anonymizationDomain.ErrSessionExpired
		}

		result, err = a.anonymizer.Deanonymize(input.Data, session.EncryptedMap)
		if err != nil {
			return err
		}

		if input.ConsumeSession {
			return a.sessionRepo.Delete(ctx, session.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteSession removes a persisted session.
func (a *anonymizationUseCase) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	return a.sessionRepo.Delete(ctx, sessionID)
}

// CleanupExpired deletes sessions that expired more than the specified number of days ago.
func (a *anonymizationUseCase) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must be non-negative")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	if dryRun {
		return a.sessionRepo.CountExpired(ctx, cutoff)
	}

	return a.sessionRepo.DeleteExpired(ctx, cutoff)
}

// NewAnonymizationUseCase creates a new AnonymizationUseCase with injected dependencies.
func NewAnonymizationUseCase(
	txManager database.TxManager,
	sessionRepo SessionRepository,
	anonymizer anonymizationService.Anonymizer,
	sessionTTL time.Duration,
) AnonymizationUseCase {
	return &anonymizationUseCase{
		txManager:   txManager,
		sessionRepo: sessionRepo,
		anonymizer:  anonymizer,
		sessionTTL:  sessionTTL,
	}
}
