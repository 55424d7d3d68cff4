package dto

import (
	"time"

	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
)

// AnonymizeResponse represents the result of an anonymize call.
type AnonymizeResponse struct {
	AnonymizedData   any                              `json:"anonymized_data"`
	AnonymizationMap anonymizationDomain.EncryptedMap `json:"anonymization_map"`
	Entries          int                              `json:"entries"`
	SessionID        string                           `json:"session_id,omitempty"`
	ExpiresAt        *time.Time                       `json:"expires_at,omitempty"`
}

// MapAnonymizeResultToResponse converts a domain result to an API response.
func MapAnonymizeResultToResponse(result *anonymizationDomain.AnonymizeResult) AnonymizeResponse {
	encrypted := result.Map
	if encrypted == nil {
		encrypted = anonymizationDomain.EncryptedMap{}
	}

	resp := AnonymizeResponse{
		AnonymizedData:   result.Data,
		AnonymizationMap: encrypted,
		Entries:          result.Entries,
	}
	if result.Session != nil {
		resp.SessionID = result.Session.ID.String()
		expiresAt := result.Session.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}
	return resp
}

// DeanonymizeResponse represents the result of a deanonymize call.
type DeanonymizeResponse struct {
	Data            any `json:"data"`
	RestoredEntries int `json:"restored_entries"`
	DroppedEntries  int `json:"dropped_entries"`
}

// MapDeanonymizeResultToResponse converts a domain result to an API response.
func MapDeanonymizeResultToResponse(result *anonymizationDomain.DeanonymizeResult) DeanonymizeResponse {
	return DeanonymizeResponse{
		Data:            result.Data,
		RestoredEntries: result.Restored,
		DroppedEntries:  result.Dropped,
	}
}
