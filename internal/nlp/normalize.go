package nlp

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var wordPattern = regexp.MustCompile(`[a-z0-9']+`)

// Normalize lower-cases and trims an utterance. Every matcher in this
// package runs on normalized text so the whole pipeline is case-insensitive.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Tokenize splits normalized text into word tokens, dropping punctuation.
func Tokenize(text string) []string {
	return wordPattern.FindAllString(Normalize(text), -1)
}

// TitleCase formats an extracted span for display, e.g. "new york" -> "New York".
// A Caser is stateful and not safe to share across sessions, so one is built
// per call.
func TitleCase(text string) string {
	return cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(text)))
}
