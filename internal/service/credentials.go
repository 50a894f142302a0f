package service

import "strings"

// Substitutions applied to the first name when deriving the advisory initial
// password. This mirrors the rule HR hands out on the provisioning sheet; it
// is a convenience default, not a security control.
var passwordSubstitutions = strings.NewReplacer(
	"a", "@",
	"e", "3",
	"i", "1",
	"o", "0",
	"s", "5",
)

const passwordSuffix = "123!"

// GenerateInitialPassword derives the hand-off password from the first name.
func GenerateInitialPassword(fullName string) string {
	first := strings.TrimSpace(fullName)
	if idx := strings.IndexByte(first, ' '); idx > 0 {
		first = first[:idx]
	}
	if first == "" {
		return ""
	}

	lower := strings.ToLower(first)
	substituted := passwordSubstitutions.Replace(lower)
	return strings.ToUpper(substituted[:1]) + substituted[1:] + passwordSuffix
}
