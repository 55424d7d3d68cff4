package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
	"github.com/allisson/anonymizer/internal/metrics"
)

const metricsDomain = "anonymization"

// anonymizationUseCaseWithMetrics decorates AnonymizationUseCase with metrics instrumentation.
type anonymizationUseCaseWithMetrics struct {
	next    AnonymizationUseCase
	metrics metrics.BusinessMetrics
}

// NewAnonymizationUseCaseWithMetrics wraps an AnonymizationUseCase with metrics recording.
func NewAnonymizationUseCaseWithMetrics(
	useCase AnonymizationUseCase,
	m metrics.BusinessMetrics,
) AnonymizationUseCase {
	return &anonymizationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *anonymizationUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	a.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// Anonymize records metrics for anonymize operations.
func (a *anonymizationUseCaseWithMetrics) Anonymize(
	ctx context.Context,
	data any,
	persist bool,
) (*anonymizationDomain.AnonymizeResult, error) {
	start := time.Now()
	result, err := a.next.Anonymize(ctx, data, persist)
	a.record(ctx, "anonymize", start, err)
	if err == nil {
		a.metrics.RecordMapEntries(ctx, "anonymize", "tokenized", result.Entries)
	}
	return result, err
}

// Deanonymize records metrics for deanonymize operations.
func (a *anonymizationUseCaseWithMetrics) Deanonymize(
	ctx context.Context,
	input *anonymizationDomain.DeanonymizeInput,
) (*anonymizationDomain.DeanonymizeResult, error) {
	start := time.Now()
	result, err := a.next.Deanonymize(ctx, input)
	a.record(ctx, "deanonymize", start, err)
	if err == nil {
		a.metrics.RecordMapEntries(ctx, "deanonymize", "restored", result.Restored)
		a.metrics.RecordMapEntries(ctx, "deanonymize", "dropped", result.Dropped)
	}
	return result, err
}

// DeleteSession records metrics for session deletion.
func (a *anonymizationUseCaseWithMetrics) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	start := time.Now()
	err := a.next.DeleteSession(ctx, sessionID)
	a.record(ctx, "delete_session", start, err)
	return err
}

// CleanupExpired records metrics for expired session cleanup operations.
func (a *anonymizationUseCaseWithMetrics) CleanupExpired(
	ctx context.Context,
	days int,
	dryRun bool,
) (int64, error) {
	start := time.Now()
	count, err := a.next.CleanupExpired(ctx, days, dryRun)
	a.record(ctx, "cleanup_expired", start, err)
	return count, err
}
