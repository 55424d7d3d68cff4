package service

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
)

type anonymizer struct {
	matchers    []PatternMatcher
	tokens      *PrefixedTokenGenerator
	cipher      *MapCipher
	restoreMode anonymizationDomain.RestoreMode
}

// NewAnonymizer creates an Anonymizer. It holds no per-call state and is safe for concurrent use.
func NewAnonymizer(
	matchers []PatternMatcher,
	tokens *PrefixedTokenGenerator,
	cipher *MapCipher,
	restoreMode anonymizationDomain.RestoreMode,
) Anonymizer {
	return &anonymizer{
		matchers:    matchers,
		tokens:      tokens,
		cipher:      cipher,
		restoreMode: restoreMode,
	}
}

// Anonymize walks value, replacing detected PII in string leaves and sensitive
// object keys with tokens. The input is never mutated.
func (a *anonymizer) Anonymize(value any) (*anonymizationDomain.AnonymizeResult, error) {
	subs := anonymizationDomain.NewSubstitutionMap(a.tokens.Next)

	w := newWalker(func(s string, isKey bool) (string, error) {
		if isKey {
			if !anonymizationDomain.IsSensitiveKey(s) {
				return s, nil
			}
			return subs.GetOrCreate(s)
		}
		return a.anonymizeString(s, subs)
	})

	data, err := w.walk(value, 0)
	if err != nil {
		return nil, err
	}

	encrypted, err := a.cipher.Encrypt(subs)
	if err != nil {
		return nil, err
	}

	return &anonymizationDomain.AnonymizeResult{Data: data, Map: encrypted, Entries: subs.Len()}, nil
}

func (a *anonymizer) anonymizeString(s string, subs *anonymizationDomain.SubstitutionMap) (string, error) {
	var err error
	for _, matcher := range a.matchers {
		s, err = matcher.Replace(s, subs)
		if err != nil {
			return "", err
		}
	}
	return s, nil
}

// Deanonymize decrypts encrypted and restores every token it knows in value.
// Entries that cannot be decrypted are dropped, leaving their tokens in place.
func (a *anonymizer) Deanonymize(
	value any,
	encrypted anonymizationDomain.EncryptedMap,
) (*anonymizationDomain.DeanonymizeResult, error) {
	subs, dropped := a.cipher.Decrypt(encrypted)

	restore := a.exactRestorer(subs)
	if a.restoreMode == anonymizationDomain.RestoreModeEmbedded {
		restore = a.embeddedRestorer(subs)
	}

	w := newWalker(func(s string, _ bool) (string, error) {
		return restore(s), nil
	})

	data, err := w.walk(value, 0)
	if err != nil {
		return nil, err
	}

	return &anonymizationDomain.DeanonymizeResult{
		Data:     data,
		Restored: subs.Len(),
		Dropped:  dropped,
	}, nil
}

func (a *anonymizer) exactRestorer(subs *anonymizationDomain.SubstitutionMap) func(string) string {
	return func(s string) string {
		if original, ok := subs.Lookup(s); ok {
			return original
		}
		return s
	}
}

// embeddedRestorer replaces tokens anywhere inside a string. An original may itself
// contain tokens from earlier detectors (a name inside an address), so replacement
// repeats until the string stops changing, at most once per entry.
func (a *anonymizer) embeddedRestorer(subs *anonymizationDomain.SubstitutionMap) func(string) string {
	entries := subs.Entries()
	if len(entries) == 0 {
		return func(s string) string { return s }
	}

	pairs := make([]string, 0, len(entries)*2)
	for _, entry := range entries {
		pairs = append(pairs, entry.Token, entry.Original)
	}
	replacer := strings.NewReplacer(pairs...)

	return func(s string) string {
		for i := 0; i <= len(entries); i++ {
			next := replacer.Replace(s)
			if next == s {
				return s
			}
			s = next
		}
		return s
	}
}

// walker performs a depth-first copy of a JSON-like value, applying fn to every
// string leaf and object key.
type walker struct {
	fn      func(s string, isKey bool) (string, error)
	onStack map[visitKey]struct{}
}

type visitKey struct {
	kind reflect.Kind
	ptr  uintptr
}

func newWalker(fn func(s string, isKey bool) (string, error)) *walker {
	return &walker{fn: fn, onStack: make(map[visitKey]struct{})}
}

func (w *walker) walk(value any, depth int) (any, error) {
	switch v := value.(type) {
	case nil, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v, nil
	case string:
		return w.fn(v, false)
	case []any:
		return w.walkSlice(v, depth)
	case map[string]any:
		return w.walkObject(v, depth)
	default:
		return nil, fmt.Errorf("%w: %T", anonymizationDomain.ErrUnsupportedValue, value)
	}
}

func (w *walker) walkSlice(v []any, depth int) (any, error) {
	if v == nil {
		return []any(nil), nil
	}
	if depth >= anonymizationDomain.MaxDepth {
		return nil, anonymizationDomain.ErrMaxDepthExceeded
	}

	key, err := w.enter(reflect.ValueOf(v), len(v))
	if err != nil {
		return nil, err
	}
	defer w.leave(key)

	out := make([]any, len(v))
	for i, item := range v {
		walked, err := w.walk(item, depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = walked
	}
	return out, nil
}

func (w *walker) walkObject(v map[string]any, depth int) (any, error) {
	if v == nil {
		return map[string]any(nil), nil
	}
	if depth >= anonymizationDomain.MaxDepth {
		return nil, anonymizationDomain.ErrMaxDepthExceeded
	}

	key, err := w.enter(reflect.ValueOf(v), len(v))
	if err != nil {
		return nil, err
	}
	defer w.leave(key)

	out := make(map[string]any, len(v))
	for k, item := range v {
		newKey, err := w.fn(k, true)
		if err != nil {
			return nil, err
		}
		if _, ok := out[newKey]; ok {
			return nil, anonymizationDomain.ErrDuplicateKey
		}
		walked, err := w.walk(item, depth+1)
		if err != nil {
			return nil, err
		}
		out[newKey] = walked
	}
	return out, nil
}

// enter marks a container as being walked. Empty containers cannot hold a cycle
// and share a zero-size backing pointer, so they are not tracked.
func (w *walker) enter(rv reflect.Value, length int) (*visitKey, error) {
	if length == 0 {
		return nil, nil
	}
	key := visitKey{kind: rv.Kind(), ptr: rv.Pointer()}
	if _, ok := w.onStack[key]; ok {
		return nil, anonymizationDomain.ErrCyclicValue
	}
	w.onStack[key] = struct{}{}
	return &key, nil
}

func (w *walker) leave(key *visitKey) {
	if key != nil {
		delete(w.onStack, *key)
	}
}
