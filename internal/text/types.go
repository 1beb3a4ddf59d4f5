// Package text implements the statistics and transform engines. Every function is
// pure: it takes a text value and returns a new text value or a derived record,
// and keeps no state between calls.
package text

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// wordsPerMinute is the average reading speed used for reading time.
const wordsPerMinute = 200

var (
	// ErrUnknownOperation is returned by Apply for a request with no operation.
	ErrUnknownOperation = errors.New("unknown text operation")

	// ErrUnknownKind is returned when a case, reverse or sort selector is not recognized.
	ErrUnknownKind = errors.New("unknown transform kind")
)

// Regular expressions shared by the statistics and transform engines.
var (
	// sentenceSplitRegex matches runs of sentence terminators.
	sentenceSplitRegex = regexp.MustCompile(`[.!?]+`)

	// paragraphSplitRegex matches a blank line: newline, optional whitespace, newline.
	paragraphSplitRegex = regexp.MustCompile(`\n[\s\p{Zs}]*\n`)

	// horizontalSpaceRegex matches runs of spaces and tabs.
	horizontalSpaceRegex = regexp.MustCompile(`[ \t]+`)

	// multipleNewlinesRegex matches three or more line breaks, allowing whitespace between them.
	multipleNewlinesRegex = regexp.MustCompile(`\n\s*\n\s*\n`)

	// wordStartRegex matches the first character of every ASCII word.
	wordStartRegex = regexp.MustCompile(`\b\w`)

	// sentenceStartRegex matches the first word character of the text and the
	// first word character following a period and whitespace.
	sentenceStartRegex = regexp.MustCompile(`^\w|\.\s+\w`)
)

// CaseKind selects a case conversion.
type CaseKind string

// Supported case conversions.
const (
	CaseUpper    CaseKind = "upper"
	CaseLower    CaseKind = "lower"
	CaseTitle    CaseKind = "title"
	CaseSentence CaseKind = "sentence"
)

// ReverseKind selects the unit that Reverse operates on.
type ReverseKind string

// Supported reversal units.
const (
	ReverseLetters ReverseKind = "letters"
	ReverseWords   ReverseKind = "words"
	ReverseLines   ReverseKind = "lines"
)

// SortOrder selects the direction of SortLines.
type SortOrder string

// Supported sort directions.
const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// Operation names one entry of the transform catalog.
type Operation string

// Transform catalog.
const (
	OpCase       Operation = "case"
	OpWhitespace Operation = "whitespace"
	OpDedupe     Operation = "dedupe"
	OpReverse    Operation = "reverse"
	OpSort       Operation = "sort"
)

// Request is a tagged selection of one transform. Only the selector that matches
// Op is read.
type Request struct {
	Op      Operation
	Case    CaseKind
	Reverse ReverseKind
	Order   SortOrder
}

// Result is the output of Apply. RemovedCount is only set by OpDedupe.
type Result struct {
	Text         string
	RemovedCount int
}

// Statistics summarizes a text snapshot.
type Statistics struct {
	WordCount          int `json:"word_count"`
	CharCount          int `json:"char_count"`
	CharCountNoSpaces  int `json:"char_count_no_spaces"`
	SentenceCount      int `json:"sentence_count"`
	ParagraphCount     int `json:"paragraph_count"`
	ReadingTimeMinutes int `json:"reading_time_minutes"`
}

// ParseCaseKind maps a command word to a CaseKind.
func ParseCaseKind(s string) (CaseKind, error) {
	switch k := CaseKind(s); k {
	case CaseUpper, CaseLower, CaseTitle, CaseSentence:
		return k, nil
	}
	return "", fmt.Errorf("%w: case %q", ErrUnknownKind, s)
}

// ParseReverseKind maps a command word to a ReverseKind.
func ParseReverseKind(s string) (ReverseKind, error) {
	switch k := ReverseKind(s); k {
	case ReverseLetters, ReverseWords, ReverseLines:
		return k, nil
	}
	return "", fmt.Errorf("%w: reverse %q", ErrUnknownKind, s)
}

// ParseSortOrder maps a command word to a SortOrder. Both the short and the long
// spelling are accepted.
func ParseSortOrder(s string) (SortOrder, error) {
	switch s {
	case "asc", "ascending":
		return SortAscending, nil
	case "desc", "descending":
		return SortDescending, nil
	}
	return "", fmt.Errorf("%w: sort %q", ErrUnknownKind, s)
}

// FormatReadingTime renders a reading time for display. Zero renders as "0 min".
func FormatReadingTime(minutes int) string {
	return strconv.Itoa(minutes) + " min"
}
