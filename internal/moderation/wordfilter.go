package moderation

import "strings"

// MatchBannedWord returns the first listed word found in text, ignoring case.
func MatchBannedWord(text string, words []string) (string, bool) {
	if text == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, w := range words {
		if w == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(w)) {
			return w, true
		}
	}
	return "", false
}
