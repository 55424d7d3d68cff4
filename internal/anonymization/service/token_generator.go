package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
)

const alphanumericChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// tokenPrefixPattern keeps tokens a single run of word characters that never starts
// with a digit, so no detector can match inside or across a token.
var tokenPrefixPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type alphanumericGenerator struct{}

// NewAlphanumericGenerator creates a new alphanumeric token generator. Generates
// cryptographically secure random alphanumeric tokens using [A-Za-z0-9].
func NewAlphanumericGenerator() TokenGenerator {
	return &alphanumericGenerator{}
}

// Generate creates a cryptographically secure random alphanumeric token of the specified length.
// Returns an error if length is less than 1 or greater than 255.
func (g *alphanumericGenerator) Generate(length int) (string, error) {
	if length < 1 {
		return "", errors.New("length must be at least 1")
	}
	if length > 255 {
		return "", errors.New("length must not exceed 255")
	}

	token := make([]byte, length)
	charsLen := big.NewInt(int64(len(alphanumericChars)))

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, charsLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random character: %w", err)
		}
		token[i] = alphanumericChars[n.Int64()]
	}

	return string(token), nil
}

// Validate checks if the token contains only alphanumeric characters [A-Za-z0-9].
func (g *alphanumericGenerator) Validate(token string) error {
	if len(token) == 0 {
		return errors.New("token cannot be empty")
	}

	for _, c := range token {
		if !isAlphanumeric(c) {
			return errors.New("token must contain only alphanumeric characters [A-Za-z0-9]")
		}
	}

	return nil
}

func isAlphanumeric(c rune) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// PrefixedTokenGenerator produces tokens shaped prefix + length random alphanumerics,
// e.g. ANON_x7Kp2QaZ.
type PrefixedTokenGenerator struct {
	prefix    string
	length    int
	generator TokenGenerator
}

// NewPrefixedTokenGenerator validates the token shape and returns a generator.
func NewPrefixedTokenGenerator(
	prefix string,
	length int,
	generator TokenGenerator,
) (*PrefixedTokenGenerator, error) {
	if !tokenPrefixPattern.MatchString(prefix) {
		return nil, fmt.Errorf("%w: prefix %q must be word characters not starting with a digit",
			anonymizationDomain.ErrInvalidTokenFormat, prefix)
	}
	if length < 4 || length > 64 {
		return nil, fmt.Errorf("%w: length must be between 4 and 64, got %d",
			anonymizationDomain.ErrInvalidTokenFormat, length)
	}

	return &PrefixedTokenGenerator{prefix: prefix, length: length, generator: generator}, nil
}

// Next returns a new random token.
func (g *PrefixedTokenGenerator) Next() (string, error) {
	suffix, err := g.generator.Generate(g.length)
	if err != nil {
		return "", err
	}
	return g.prefix + suffix, nil
}

// Validate reports whether token has the shape produced by Next.
func (g *PrefixedTokenGenerator) Validate(token string) error {
	suffix, ok := strings.CutPrefix(token, g.prefix)
	if !ok {
		return fmt.Errorf("token must start with %q", g.prefix)
	}
	if len(suffix) != g.length {
		return fmt.Errorf("token suffix must be %d characters", g.length)
	}
	return g.generator.Validate(suffix)
}
