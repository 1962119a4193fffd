package chunk

import "unicode/utf8"

// EstimateTokens approximates the embedding token count of text as runes/4.
// Rune count (not bytes) keeps accented French text from being overcounted.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return utf8.RuneCountInString(text) / 4
}
