package text

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ComputeStatistics derives the full statistics record for s. It never fails:
// empty or all-whitespace text yields zero for every count.
//
// Words, sentences and paragraphs are counted on the trimmed text; character
// counts use the raw text. Characters are runes, so multi-byte text counts one
// per character.
func ComputeStatistics(s string) Statistics {
	trimmed := strings.TrimSpace(s)

	var stats Statistics
	stats.CharCount = utf8.RuneCountInString(s)
	stats.CharCountNoSpaces = stats.CharCount - countWhitespace(s)

	if trimmed == "" {
		return stats
	}

	stats.WordCount = len(strings.Fields(trimmed))
	stats.SentenceCount = countSegments(sentenceSplitRegex, trimmed)
	stats.ParagraphCount = countSegments(paragraphSplitRegex, trimmed)
	stats.ReadingTimeMinutes = ReadingTime(stats.WordCount)

	return stats
}

// ReadingTime returns ceil(words / 200). Non-positive word counts yield zero.
func ReadingTime(words int) int {
	if words <= 0 {
		return 0
	}
	minutes := words / wordsPerMinute
	if words%wordsPerMinute != 0 {
		minutes++
	}
	return minutes
}

func countWhitespace(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// countSegments splits s on re and counts the pieces that are not blank.
func countSegments(re *regexp.Regexp, s string) int {
	n := 0
	for _, seg := range re.Split(s, -1) {
		if strings.TrimSpace(seg) != "" {
			n++
		}
	}
	return n
}
