package utils

import (
	"strings"
	"unicode"
)

// Slugify lowercases s and reduces it to hyphen-separated alphanumeric
// runs: "Hello, World!" -> "hello-world".
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash

	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
