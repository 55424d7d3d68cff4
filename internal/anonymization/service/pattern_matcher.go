package service

import (
	"regexp"
	"strings"

	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
)

// PIIType names the kind of data a PatternMatcher detects.
type PIIType string

const (
	PIIEmail      PIIType = "email"
	PIIPhone      PIIType = "phone"
	PIISSN        PIIType = "ssn"
	PIIName       PIIType = "name"
	PIIAddress    PIIType = "address"
	PIIBirthDate  PIIType = "birth_date"
	PIILongNumber PIIType = "long_number"
)

// PatternMatcher detects one kind of PII inside a string.
type PatternMatcher struct {
	Type      PIIType
	re        *regexp.Regexp
	minLength int
}

// NewPatternMatcher compiles expr into a matcher. Matches shorter than minLength are ignored.
func NewPatternMatcher(piiType PIIType, expr string, minLength int) PatternMatcher {
	return PatternMatcher{Type: piiType, re: regexp.MustCompile(expr), minLength: minLength}
}

// DefaultPatternMatchers returns the detectors in the order they are applied.
//
// Order matters: each pass scans the output of the previous one, and replaced text
// is a token that later patterns cannot match.
func DefaultPatternMatchers() []PatternMatcher {
	return []PatternMatcher{
		NewPatternMatcher(PIIEmail, `\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`, 0),
		NewPatternMatcher(PIIPhone, `(?:\(\d{3}\)\s?|\b\d{3}[-.\s]?)\d{3}[-.\s]?\d{4}\b`, 0),
		NewPatternMatcher(PIISSN, `\b\d{3}-?\d{2}-?\d{4}\b`, 0),
		NewPatternMatcher(PIIName, givenNamesExpr(anonymizationDomain.CommonGivenNames), 0),
		NewPatternMatcher(
			PIIAddress,
			`(?i)\b\d{1,6}(?:\s+[\w'.\-]+){1,4}?\s+`+
				`(?:street|st|avenue|ave|road|rd|drive|dr|lane|ln|boulevard|blvd|way|court|ct|`+
				`place|pl|circle|cir|parkway|pkwy)\b\.?`,
			0,
		),
		NewPatternMatcher(
			PIIBirthDate,
			`\b(?:0?[1-9]|1[0-2])[/-](?:0?[1-9]|[12]\d|3[01])[/-](?:19|20)\d{2}\b`,
			0,
		),
		NewPatternMatcher(PIILongNumber, `\b\d{8,17}\b`, 8),
	}
}

func givenNamesExpr(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = regexp.QuoteMeta(name)
	}
	return `(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`
}

// Replace substitutes every match in s with its token from subs.
func (p PatternMatcher) Replace(s string, subs *anonymizationDomain.SubstitutionMap) (string, error) {
	matches := p.re.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, match := range matches {
		start, end := match[0], match[1]
		if end-start < p.minLength {
			continue
		}
		token, err := subs.GetOrCreate(s[start:end])
		if err != nil {
			return "", err
		}
		b.WriteString(s[last:start])
		b.WriteString(token)
		last = end
	}
	b.WriteString(s[last:])

	return b.String(), nil
}

// Match reports whether s contains this kind of PII.
func (p PatternMatcher) Match(s string) bool {
	for _, match := range p.re.FindAllStringIndex(s, -1) {
		if match[1]-match[0] >= p.minLength {
			return true
		}
	}
	return false
}
