package http

import (
	"crypto/rand"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
	"github.com/allisson/anonymizer/internal/anonymization/http/dto"
	anonymizationService "github.com/allisson/anonymizer/internal/anonymization/service"
	"github.com/allisson/anonymizer/internal/anonymization/usecase"
	cryptoDomain "github.com/allisson/anonymizer/internal/crypto/domain"
	cryptoService "github.com/allisson/anonymizer/internal/crypto/service"
)

func setupRoundTripHandler(t *testing.T) *AnonymizationHandler {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	aead, err := cryptoService.NewAEADManager().CreateCipher(key, cryptoDomain.AESGCM)
	require.NoError(t, err)

	tokens, err := anonymizationService.NewPrefixedTokenGenerator(
		anonymizationDomain.DefaultTokenPrefix,
		anonymizationDomain.DefaultTokenLength,
		anonymizationService.NewAlphanumericGenerator(),
	)
	require.NoError(t, err)

	anonymizer := anonymizationService.NewAnonymizer(
		anonymizationService.DefaultPatternMatchers(),
		tokens,
		anonymizationService.NewMapCipher(aead, logger),
		anonymizationDomain.RestoreModeEmbedded,
	)

	// Map-only requests never reach the transaction manager or the repository.
	useCase := usecase.NewAnonymizationUseCase(nil, nil, anonymizer, time.Hour)
	return NewAnonymizationHandler(useCase, logger)
}

func TestAnonymizationHandler_DeanonymizeCorruptedMap(t *testing.T) {
	document := map[string]any{
		"contact": "alice@example.com",
		"notes":   "555-123-4567",
		"memo":    "123-45-6789",
	}

	tests := []struct {
		name    string
		corrupt func(key string) string
	}{
		{"invalid base64url character", func(key string) string { return key + "!" }},
		{"padded key", func(key string) string { return key + "==" }},
		{"truncated ciphertext", func(key string) string { return key[:len(key)-1] }},
		{"tampered nonce", func(key string) string {
			replacement := "A"
			if key[0] == 'A' {
				replacement = "B"
			}
			return replacement + key[1:]
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := setupRoundTripHandler(t)

			body, err := json.Marshal(map[string]any{"data": document})
			require.NoError(t, err)

			c, w := createTestContext(http.MethodPost, "/v1/anonymize", string(body))
			handler.AnonymizeHandler(c)
			require.Equal(t, http.StatusOK, w.Code)

			var anonymized dto.AnonymizeResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &anonymized))
			require.Equal(t, 3, anonymized.Entries)

			fields, ok := anonymized.AnonymizedData.(map[string]any)
			require.True(t, ok)
			corruptedToken, ok := fields["notes"].(string)
			require.True(t, ok)

			corrupted := map[string]string{}
			for key, token := range anonymized.AnonymizationMap {
				if token == corruptedToken {
					key = tt.corrupt(key)
				}
				corrupted[key] = token
			}
			require.Len(t, corrupted, 3)

			body, err = json.Marshal(map[string]any{
				"data":              anonymized.AnonymizedData,
				"anonymization_map": corrupted,
			})
			require.NoError(t, err)

			c, w = createTestContext(http.MethodPost, "/v1/deanonymize", string(body))
			handler.DeanonymizeHandler(c)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var restored dto.DeanonymizeResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &restored))
			assert.Equal(t, 2, restored.RestoredEntries)
			assert.Equal(t, 1, restored.DroppedEntries)
			assert.Equal(t, map[string]any{
				"contact": "alice@example.com",
				"notes":   corruptedToken,
				"memo":    "123-45-6789",
			}, restored.Data)
		})
	}
}
