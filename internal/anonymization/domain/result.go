package domain

import "github.com/google/uuid"

// AnonymizeResult is the output of an anonymize call. Session is set only when
// the map was persisted.
type AnonymizeResult struct {
	Data    any
	Map     EncryptedMap
	Entries int
	Session *Session
}

// DeanonymizeInput carries the value to restore and the source of its map:
// either Map or SessionID, never both.
type DeanonymizeInput struct {
	Data      any
	Map       EncryptedMap
	SessionID *uuid.UUID
	// ConsumeSession deletes the session once it has been used.
	ConsumeSession bool
}

// DeanonymizeResult is the output of a deanonymize call. Restored counts the usable
// map entries and Dropped the entries that could not be decrypted.
type DeanonymizeResult struct {
	Data     any
	Restored int
	Dropped  int
}
