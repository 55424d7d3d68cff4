package domain

import "strings"

// RestoreMode controls how tokens found in string values are restored.
type RestoreMode string

const (
	// RestoreModeEmbedded restores every known token wherever it appears inside a string.
	RestoreModeEmbedded RestoreMode = "embedded"

	// RestoreModeExact restores a string only when the whole string is a known token.
	RestoreModeExact RestoreMode = "exact"
)

// ParseRestoreMode converts a configuration value into a RestoreMode.
func ParseRestoreMode(value string) (RestoreMode, error) {
	switch RestoreMode(value) {
	case RestoreModeEmbedded:
		return RestoreModeEmbedded, nil
	case RestoreModeExact:
		return RestoreModeExact, nil
	default:
		return "", ErrInvalidRestoreMode
	}
}

const (
	// DefaultTokenPrefix is prepended to every generated token.
	DefaultTokenPrefix = "ANON_"

	// DefaultTokenLength is the number of random alphanumeric characters after the prefix.
	DefaultTokenLength = 8

	// MaxDepth is the maximum nesting depth of arrays and objects accepted by the anonymizer.
	MaxDepth = 256
)

// SensitiveKeyFragments lists the lowercase field-name fragments that mark an object key as PII.
// Matching is a case-insensitive substring check, so "clientName" and "spouse_email" both match.
var SensitiveKeyFragments = []string{
	"name",
	"email",
	"phone",
	"address",
	"ssn",
	"dob",
	"birthdate",
	"firstname",
	"lastname",
	"fullname",
	"clientname",
	"beneficiary",
	"spouse",
	"child",
	"parent",
	"guardian",
	"executor",
	"trustee",
	"witness",
	"attorney",
	"accountnumber",
	"routingnumber",
	"taxid",
}

// IsSensitiveKey reports whether an object key names a PII field.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, fragment := range SensitiveKeyFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

// CommonGivenNames is the heuristic allow-list of first names detected inside free text.
// It only catches listed names; surnames and uncommon names pass through.
var CommonGivenNames = []string{
	"james", "john", "robert", "michael", "william", "david", "richard", "joseph",
	"thomas", "charles", "christopher", "daniel", "matthew", "anthony", "mark",
	"donald", "steven", "paul", "andrew", "joshua", "kenneth", "kevin", "brian",
	"george", "edward", "ronald", "timothy", "jason", "jeffrey", "ryan", "jacob",
	"gary", "nicholas", "eric", "jonathan", "stephen", "larry", "justin", "scott",
	"brandon", "benjamin", "samuel", "gregory", "frank", "alexander", "raymond",
	"patrick", "jack", "dennis", "jerry", "tyler", "aaron", "henry", "peter",
	"mary", "patricia", "jennifer", "linda", "elizabeth", "barbara", "susan",
	"jessica", "sarah", "karen", "nancy", "lisa", "betty", "margaret", "sandra",
	"ashley", "kimberly", "emily", "donna", "michelle", "dorothy", "carol",
	"amanda", "melissa", "deborah", "stephanie", "rebecca", "sharon", "laura",
	"cynthia", "kathleen", "amy", "shirley", "angela", "helen", "anna", "brenda",
	"pamela", "nicole", "emma", "samantha", "katherine", "christine", "debra",
	"rachel", "catherine", "carolyn", "janet", "ruth", "maria", "heather",
	"diane", "virginia", "julie", "joyce", "victoria", "olivia", "kelly",
	"christina", "lauren", "joan", "evelyn", "judith", "megan", "cheryl",
	"andrea", "hannah", "martha", "jacqueline", "frances", "gloria", "ann",
	"jane", "alice", "grace", "rose", "sophia", "isabella", "charlotte", "amelia",
}
