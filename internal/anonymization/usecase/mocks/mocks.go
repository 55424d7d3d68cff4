// Package mocks provides mock implementations for testing anonymization use cases and handlers.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
)

// MockSessionRepository is a mock implementation of SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

// Create mocks the Create method of SessionRepository.
func (m *MockSessionRepository) Create(ctx context.Context, session *anonymizationDomain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// Get mocks the Get method of SessionRepository.
func (m *MockSessionRepository) Get(ctx context.Context, sessionID uuid.UUID) (*anonymizationDomain.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anonymizationDomain.Session), args.Error(1)
}

// Delete mocks the Delete method of SessionRepository.
func (m *MockSessionRepository) Delete(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// DeleteExpired mocks the DeleteExpired method of SessionRepository.
func (m *MockSessionRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// CountExpired mocks the CountExpired method of SessionRepository.
func (m *MockSessionRepository) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// MockAnonymizer is a mock implementation of the anonymizer service.
type MockAnonymizer struct {
	mock.Mock
}

// Anonymize mocks the Anonymize method of Anonymizer.
func (m *MockAnonymizer) Anonymize(value any) (*anonymizationDomain.AnonymizeResult, error) {
	args := m.Called(value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anonymizationDomain.AnonymizeResult), args.Error(1)
}

// Deanonymize mocks the Deanonymize method of Anonymizer.
func (m *MockAnonymizer) Deanonymize(
	value any,
	encrypted anonymizationDomain.EncryptedMap,
) (*anonymizationDomain.DeanonymizeResult, error) {
	args := m.Called(value, encrypted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anonymizationDomain.DeanonymizeResult), args.Error(1)
}

// MockAnonymizationUseCase is a mock implementation of AnonymizationUseCase.
type MockAnonymizationUseCase struct {
	mock.Mock
}

// Anonymize mocks the Anonymize method of AnonymizationUseCase.
func (m *MockAnonymizationUseCase) Anonymize(
	ctx context.Context,
	data any,
	persist bool,
) (*anonymizationDomain.AnonymizeResult, error) {
	args := m.Called(ctx, data, persist)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anonymizationDomain.AnonymizeResult), args.Error(1)
}

// Deanonymize mocks the Deanonymize method of AnonymizationUseCase.
func (m *MockAnonymizationUseCase) Deanonymize(
	ctx context.Context,
	input *anonymizationDomain.DeanonymizeInput,
) (*anonymizationDomain.DeanonymizeResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anonymizationDomain.DeanonymizeResult), args.Error(1)
}

// DeleteSession mocks the DeleteSession method of AnonymizationUseCase.
func (m *MockAnonymizationUseCase) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// CleanupExpired mocks the CleanupExpired method of AnonymizationUseCase.
func (m *MockAnonymizationUseCase) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}
