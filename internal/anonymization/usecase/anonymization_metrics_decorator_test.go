package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
	anonymizationMocks "github.com/allisson/anonymizer/internal/anonymization/usecase/mocks"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordMapEntries(ctx context.Context, operation, outcome string, count int) {
	m.Called(ctx, operation, outcome, count)
}

func expectMetrics(m *mockBusinessMetrics, operation, status string) {
	m.On("RecordOperation", mock.Anything, "anonymization", operation, status).Once()
	m.On("RecordDuration", mock.Anything, "anonymization", operation, mock.AnythingOfType("time.Duration"), status).
		Once()
}

func TestNewAnonymizationUseCaseWithMetrics(t *testing.T) {
	decorator := NewAnonymizationUseCaseWithMetrics(
		&anonymizationMocks.MockAnonymizationUseCase{},
		&mockBusinessMetrics{},
	)

	assert.NotNil(t, decorator)
	assert.IsType(t, &anonymizationUseCaseWithMetrics{}, decorator)
}

func TestAnonymizationUseCaseWithMetrics_Anonymize(t *testing.T) {
	tests := []struct {
		name           string
		returnResult   *anonymizationDomain.AnonymizeResult
		returnErr      error
		expectedStatus string
	}{
		{
			name:           "Success_RecordsSuccessMetrics",
			returnResult:   &anonymizationDomain.AnonymizeResult{Data: "ANON_abcd1234", Entries: 1},
			expectedStatus: "success",
		},
		{
			name:           "Error_RecordsErrorMetrics",
			returnErr:      anonymizationDomain.ErrUnsupportedValue,
			expectedStatus: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUseCase := &anonymizationMocks.MockAnonymizationUseCase{}
			mockMetrics := &mockBusinessMetrics{}
			if tt.returnResult != nil {
				mockUseCase.On("Anonymize", mock.Anything, "john@example.com", false).Return(tt.returnResult, nil).Once()
			} else {
				mockUseCase.On("Anonymize", mock.Anything, "john@example.com", false).Return(nil, tt.returnErr).Once()
			}
			expectMetrics(mockMetrics, "anonymize", tt.expectedStatus)
			if tt.returnResult != nil {
				mockMetrics.On("RecordMapEntries", mock.Anything, "anonymize", "tokenized", tt.returnResult.Entries).Once()
			}

			decorator := NewAnonymizationUseCaseWithMetrics(mockUseCase, mockMetrics)
			result, err := decorator.Anonymize(context.Background(), "john@example.com", false)

			assert.Equal(t, tt.returnResult, result)
			assert.Equal(t, tt.returnErr, err)
			mockUseCase.AssertExpectations(t)
			mockMetrics.AssertExpectations(t)
		})
	}
}

func TestAnonymizationUseCaseWithMetrics_Deanonymize(t *testing.T) {
	mockUseCase := &anonymizationMocks.MockAnonymizationUseCase{}
	mockMetrics := &mockBusinessMetrics{}
	input := &anonymizationDomain.DeanonymizeInput{Data: "x", Map: anonymizationDomain.EncryptedMap{}}
	expected := &anonymizationDomain.DeanonymizeResult{Data: "x", Restored: 2, Dropped: 1}
	mockUseCase.On("Deanonymize", mock.Anything, input).Return(expected, nil).Once()
	expectMetrics(mockMetrics, "deanonymize", "success")
	mockMetrics.On("RecordMapEntries", mock.Anything, "deanonymize", "restored", 2).Once()
	mockMetrics.On("RecordMapEntries", mock.Anything, "deanonymize", "dropped", 1).Once()

	decorator := NewAnonymizationUseCaseWithMetrics(mockUseCase, mockMetrics)
	result, err := decorator.Deanonymize(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, expected, result)
	mockMetrics.AssertExpectations(t)
}

func TestAnonymizationUseCaseWithMetrics_DeleteSession(t *testing.T) {
	mockUseCase := &anonymizationMocks.MockAnonymizationUseCase{}
	mockMetrics := &mockBusinessMetrics{}
	id := uuid.Must(uuid.NewV7())
	mockUseCase.On("DeleteSession", mock.Anything, id).Return(anonymizationDomain.ErrSessionNotFound).Once()
	expectMetrics(mockMetrics, "delete_session", "error")

	decorator := NewAnonymizationUseCaseWithMetrics(mockUseCase, mockMetrics)
	err := decorator.DeleteSession(context.Background(), id)

	assert.ErrorIs(t, err, anonymizationDomain.ErrSessionNotFound)
	mockMetrics.AssertExpectations(t)
}

func TestAnonymizationUseCaseWithMetrics_CleanupExpired(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockUseCase := &anonymizationMocks.MockAnonymizationUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		mockUseCase.On("CleanupExpired", mock.Anything, 30, true).Return(int64(4), nil).Once()
		expectMetrics(mockMetrics, "cleanup_expired", "success")

		decorator := NewAnonymizationUseCaseWithMetrics(mockUseCase, mockMetrics)
		count, err := decorator.CleanupExpired(context.Background(), 30, true)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Error", func(t *testing.T) {
		mockUseCase := &anonymizationMocks.MockAnonymizationUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		mockUseCase.On("CleanupExpired", mock.Anything, 30, false).Return(int64(0), errors.New("db down")).Once()
		expectMetrics(mockMetrics, "cleanup_expired", "error")

		decorator := NewAnonymizationUseCaseWithMetrics(mockUseCase, mockMetrics)
		_, err := decorator.CleanupExpired(context.Background(), 30, false)

		assert.EqualError(t, err, "db down")
		mockMetrics.AssertExpectations(t)
	})
}
