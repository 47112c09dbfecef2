package centroid

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticStripper decomposes to NFD and drops combining marks, so "délai"
// and "delai" normalize identically.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// normalizeText lowercases and strips diacritics for accent-insensitive
// substring matching.
func normalizeText(text string) string {
	lowered := strings.ToLower(text)
	stripped, _, err := transform.String(diacriticStripper, lowered)
	if err != nil {
		return lowered
	}
	return stripped
}

// countTriggerHits counts how many of the normalized triggers occur as
// substrings of the normalized message.
func countTriggerHits(normalizedMsg string, normalizedTriggers []string) int {
	hits := 0
	for _, t := range normalizedTriggers {
		if t != "" && strings.Contains(normalizedMsg, t) {
			hits++
		}
	}
	return hits
}

// normalizeAll normalizes every entry of a trigger list once, at router
// construction.
func normalizeAll(triggers []string) []string {
	out := make([]string, len(triggers))
	for i, t := range triggers {
		out[i] = normalizeText(t)
	}
	return out
}
