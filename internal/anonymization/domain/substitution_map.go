package domain

import (
	"fmt"
)

// maxGenerateAttempts bounds the retries when a generated token is already taken.
const maxGenerateAttempts = 16

// TokenGenerator returns a fresh random token.
type TokenGenerator func() (string, error)

// Entry is one original value paired with its token.
type Entry struct {
	Original string
	Token    string
}

// SubstitutionMap is the bijective original-to-token table built during a single
// anonymize call. It is not safe for concurrent use; every call owns its own map.
type SubstitutionMap struct {
	byOriginal map[string]string
	byToken    map[string]string
	entries    []Entry
	generate   TokenGenerator
}

// NewSubstitutionMap creates an empty map that draws new tokens from generate.
// generate may be nil for maps that are only rebuilt with Put.
func NewSubstitutionMap(generate TokenGenerator) *SubstitutionMap {
	return &SubstitutionMap{
		byOriginal: make(map[string]string),
		byToken:    make(map[string]string),
		generate:   generate,
	}
}

// GetOrCreate returns the token for original, generating and recording a new one
// the first time original is seen.
func (m *SubstitutionMap) GetOrCreate(original string) (string, error) {
	if token, ok := m.byOriginal[original]; ok {
		return token, nil
	}
	if m.generate == nil {
		return "", fmt.Errorf("%w: no token generator configured", ErrTokenGenerationFailed)
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		token, err := m.generate()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrTokenGenerationFailed, err)
		}
		if _, taken := m.byToken[token]; taken {
			continue
		}
		m.add(original, token)
		return token, nil
	}

	return "", fmt.Errorf("%w: %d attempts collided", ErrTokenGenerationFailed, maxGenerateAttempts)
}

// Put records an existing pair. Re-adding the same pair is a no-op; a pair that
// would map one side to two different values is rejected.
func (m *SubstitutionMap) Put(original, token string) error {
	if existing, ok := m.byToken[token]; ok {
		if existing == original {
			return nil
		}
		return ErrDuplicateToken
	}
	if _, ok := m.byOriginal[original]; ok {
		return ErrDuplicateOriginal
	}
	m.add(original, token)
	return nil
}

// Lookup returns the original value for token.
func (m *SubstitutionMap) Lookup(token string) (string, bool) {
	original, ok := m.byToken[token]
	return original, ok
}

// TokenFor returns the token assigned to original.
func (m *SubstitutionMap) TokenFor(original string) (string, bool) {
	token, ok := m.byOriginal[original]
	return token, ok
}

// Len returns the number of entries.
func (m *SubstitutionMap) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the entries in insertion order.
func (m *SubstitutionMap) Entries() []Entry {
	entries := make([]Entry, len(m.entries))
	copy(entries, m.entries)
	return entries
}

func (m *SubstitutionMap) add(original, token string) {
	m.byOriginal[original] = token
	m.byToken[token] = original
	m.entries = append(m.entries, Entry{Original: original, Token: token})
}
