package parser

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeLines splits text into trimmed, non-empty lines, preserving order.
// Line content is otherwise kept as written.
func NormalizeLines(text string) []string {
	if text == "" {
		return []string{}
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return normalizeSlice(strings.Split(text, "\n"))
}

func normalizeSlice(lines []string) []string {
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		result = append(result, trimmed)
	}
	return result
}

// matchLine applies matchers in order and returns the first match. A line
// that matches nothing is retried composed to NFC, so headings extracted
// with decomposed accents (E followed by U+0300) are still recognized; the
// numeral and fragment then come from the composed copy.
func matchLine(matchers []Matcher, line string) (Match, bool) {
	if m, ok := firstMatch(matchers, line); ok {
		return m, true
	}
	if norm.NFC.IsNormalString(line) {
		return Match{}, false
	}
	return firstMatch(matchers, norm.NFC.String(line))
}
