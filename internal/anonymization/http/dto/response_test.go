package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
)

func TestMapAnonymizeResultToResponse(t *testing.T) {
	t.Run("WithoutSession", func(t *testing.T) {
		resp := MapAnonymizeResultToResponse(&anonymizationDomain.AnonymizeResult{
			Data:    "plain text",
			Entries: 0,
		})

		body, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.JSONEq(t, `{"anonymized_data":"plain text","anonymization_map":{},"entries":0}`, string(body))
	})

	t.Run("WithSession", func(t *testing.T) {
		expiresAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
		session := &anonymizationDomain.Session{ID: uuid.Must(uuid.NewV7()), ExpiresAt: expiresAt}

		resp := MapAnonymizeResultToResponse(&anonymizationDomain.AnonymizeResult{
			Data:    "ANON_aaaaaaaa",
			Map:     anonymizationDomain.EncryptedMap{"c2VhbGVk": "ANON_aaaaaaaa"},
			Entries: 1,
			Session: session,
		})

		assert.Equal(t, session.ID.String(), resp.SessionID)
		require.NotNil(t, resp.ExpiresAt)
		assert.Equal(t, expiresAt, *resp.ExpiresAt)
		assert.Equal(t, 1, resp.Entries)
	})
}

func TestMapDeanonymizeResultToResponse(t *testing.T) {
	resp := MapDeanonymizeResultToResponse(&anonymizationDomain.DeanonymizeResult{
		Data:     map[string]any{"name": "Jane Doe"},
		Restored: 1,
		Dropped:  2,
	})

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"name":"Jane Doe"},"restored_entries":1,"dropped_entries":2}`, string(body))
}
