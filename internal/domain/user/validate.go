package user

import (
	"regexp"
	"strings"
)

var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// NormalizeMobile strips every non-digit character and keeps the trailing 10
// digits, so country codes and punctuation are tolerated. Returns false when
// fewer than 10 digits remain.
func NormalizeMobile(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 10 {
		return "", false
	}
	return digits[len(digits)-10:], true
}

// ValidPAN reports whether raw is a valid PAN after upper-casing:
// 5 letters, 4 digits, 1 letter.
func ValidPAN(raw string) bool {
	return panPattern.MatchString(strings.ToUpper(raw))
}
