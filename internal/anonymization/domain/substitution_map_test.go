package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequenceGenerator(tokens ...string) TokenGenerator {
	i := 0
	return func() (string, error) {
		if i >= len(tokens) {
			return "", errors.New("exhausted")
		}
		token := tokens[i]
		i++
		return token, nil
	}
}

func counterGenerator() TokenGenerator {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("ANON_%08d", n), nil
	}
}

func TestSubstitutionMap_GetOrCreate(t *testing.T) {
	t.Run("creates token for new value", func(t *testing.T) {
		m := NewSubstitutionMap(sequenceGenerator("ANON_aaaaaaaa"))

		token, err := m.GetOrCreate("jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, "ANON_aaaaaaaa", token)
		assert.Equal(t, 1, m.Len())
	})

	t.Run("reuses token for repeated value", func(t *testing.T) {
		m := NewSubstitutionMap(counterGenerator())

		first, err := m.GetOrCreate("Jane")
		require.NoError(t, err)
		second, err := m.GetOrCreate("Jane")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, m.Len())
	})

	t.Run("retries when generated token is taken", func(t *testing.T) {
		m := NewSubstitutionMap(sequenceGenerator("ANON_aaaaaaaa", "ANON_aaaaaaaa", "ANON_bbbbbbbb"))

		first, err := m.GetOrCreate("one")
		require.NoError(t, err)
		second, err := m.GetOrCreate("two")
		require.NoError(t, err)

		assert.Equal(t, "ANON_aaaaaaaa", first)
		assert.Equal(t, "ANON_bbbbbbbb", second)
	})

	t.Run("gives up after repeated collisions", func(t *testing.T) {
		m := NewSubstitutionMap(func() (string, error) { return "ANON_same0000", nil })

		_, err := m.GetOrCreate("one")
		require.NoError(t, err)
		_, err = m.GetOrCreate("two")
		assert.ErrorIs(t, err, ErrTokenGenerationFailed)
		assert.Equal(t, 1, m.Len())
	})

	t.Run("generator error", func(t *testing.T) {
		m := NewSubstitutionMap(sequenceGenerator())

		_, err := m.GetOrCreate("one")
		assert.ErrorIs(t, err, ErrTokenGenerationFailed)
	})

	t.Run("nil generator", func(t *testing.T) {
		m := NewSubstitutionMap(nil)

		_, err := m.GetOrCreate("one")
		assert.ErrorIs(t, err, ErrTokenGenerationFailed)
	})
}

func TestSubstitutionMap_Put(t *testing.T) {
	m := NewSubstitutionMap(nil)

	require.NoError(t, m.Put("jane@example.com", "ANON_aaaaaaaa"))
	assert.NoError(t, m.Put("jane@example.com", "ANON_aaaaaaaa"))
	assert.Equal(t, 1, m.Len())

	assert.ErrorIs(t, m.Put("john@example.com", "ANON_aaaaaaaa"), ErrDuplicateToken)
	assert.ErrorIs(t, m.Put("jane@example.com", "ANON_bbbbbbbb"), ErrDuplicateOriginal)
	assert.Equal(t, 1, m.Len())
}

func TestSubstitutionMap_Lookups(t *testing.T) {
	m := NewSubstitutionMap(counterGenerator())

	originals := []string{"Jane", "555-123-4567", "clientName"}
	for _, original := range originals {
		_, err := m.GetOrCreate(original)
		require.NoError(t, err)
	}

	for _, entry := range m.Entries() {
		original, ok := m.Lookup(entry.Token)
		require.True(t, ok)
		assert.Equal(t, entry.Original, original)

		token, ok := m.TokenFor(entry.Original)
		require.True(t, ok)
		assert.Equal(t, entry.Token, token)
	}

	_, ok := m.Lookup("ANON_missing0")
	assert.False(t, ok)
	_, ok = m.TokenFor("missing")
	assert.False(t, ok)

	entries := m.Entries()
	require.Len(t, entries, 3)
	for i, original := range originals {
		assert.Equal(t, original, entries[i].Original)
	}

	entries[0].Original = "mutated"
	assert.Equal(t, "Jane", m.Entries()[0].Original)
}
