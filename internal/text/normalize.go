// Package text prepares newsletter text for speech synthesis: whitespace
// normalization and splitting into bounded chunks the TTS API can accept.
package text

import (
	"regexp"
	"strings"
)

var (
	blankLineRe  = regexp.MustCompile(`\n\s*\n`)
	horizSpaceRe = regexp.MustCompile(`[ \t]+`)
)

// Normalize collapses whitespace noise into a canonical form: any run of
// blank lines becomes exactly one blank line, runs of horizontal whitespace
// become a single space, and surrounding whitespace is stripped. It never
// fails; empty input yields an empty string.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = blankLineRe.ReplaceAllString(s, "\n\n")
	s = horizSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
