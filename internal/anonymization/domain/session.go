package domain

import (
	"time"

	"github.com/google/uuid"
)

// EncryptedMap is the wire form of a SubstitutionMap: each key is the encoded
// ciphertext of an original value and each value is the token that replaced it.
type EncryptedMap map[string]string

// Session is a persisted EncryptedMap that can be referenced by ID instead of
// carrying the map back on deanonymize.
type Session struct {
	ID           uuid.UUID
	EncryptedMap EncryptedMap
	EntryCount   int
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// IsExpired checks if the session has expired. All time comparisons use UTC.
func (s *Session) IsExpired() bool {
	return !time.Now().UTC().Before(s.ExpiresAt.UTC())
}
