package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lower applies language-neutral lower-case mapping.
func Lower(text string) string {
	// A Caser keeps state between calls and must not be shared.
	return cases.Lower(language.Und).String(text)
}

// NormalizeTranscript joins tokens with single spaces and lower-cases the result.
func NormalizeTranscript(tokens []string) string {
	return Lower(strings.Join(tokens, " "))
}

// IsNormalizedTranscript reports whether text is already lower-cased and
// single-space separated with no leading or trailing whitespace.
func IsNormalizedTranscript(text string) bool {
	return text == NormalizeTranscript(strings.Fields(text))
}
