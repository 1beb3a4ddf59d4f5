package text

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ApplyCase converts s to the selected case. Title and sentence case lowercase
// the text first and then capitalize at ASCII word boundaries, so letters after
// an apostrophe or a non-ASCII letter also start a new word ("o'brien" becomes
// "O'Brien"). An unknown kind returns s unchanged.
func ApplyCase(s string, kind CaseKind) string {
	switch kind {
	case CaseUpper:
		return cases.Upper(language.Und).String(s)
	case CaseLower:
		return cases.Lower(language.Und).String(s)
	case CaseTitle:
		lower := cases.Lower(language.Und).String(s)
		return wordStartRegex.ReplaceAllStringFunc(lower, strings.ToUpper)
	case CaseSentence:
		lower := cases.Lower(language.Und).String(s)
		return sentenceStartRegex.ReplaceAllStringFunc(lower, strings.ToUpper)
	default:
		return s
	}
}

// CleanWhitespace collapses runs of spaces and tabs into one space, reduces three
// or more line breaks (whitespace between them allowed) to a single blank line,
// and trims the result.
func CleanWhitespace(s string) string {
	s = horizontalSpaceRegex.ReplaceAllString(s, " ")
	s = multipleNewlinesRegex.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// DeduplicateLines keeps the first occurrence of every distinct line, in original
// order, and reports how many lines were dropped.
func DeduplicateLines(s string) (string, int) {
	lines := strings.Split(s, "\n")
	seen := make(map[string]struct{}, len(lines))
	unique := make([]string, 0, len(lines))

	for _, line := range lines {
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		unique = append(unique, line)
	}

	return strings.Join(unique, "\n"), len(lines) - len(unique)
}

// Reverse reverses s by letters, words or lines. Words are split on single spaces
// only: consecutive spaces produce empty tokens that keep their position. An
// unknown kind returns s unchanged.
func Reverse(s string, kind ReverseKind) string {
	switch kind {
	case ReverseLetters:
		r := []rune(s)
		slices.Reverse(r)
		return string(r)
	case ReverseWords:
		return reverseSplit(s, " ")
	case ReverseLines:
		return reverseSplit(s, "\n")
	default:
		return s
	}
}

func reverseSplit(s, sep string) string {
	parts := strings.Split(s, sep)
	slices.Reverse(parts)
	return strings.Join(parts, sep)
}

// SortLines sorts the lines of s with a stable, case- and accent-insensitive,
// numeric-aware collation ("item2" before "item10"). Lines that compare equal
// keep their original relative order in both directions. Empty lines are kept
// and sort as the empty string. An unknown order returns s unchanged.
func SortLines(s string, order SortOrder) string {
	if order != SortAscending && order != SortDescending {
		return s
	}

	lines := strings.Split(s, "\n")

	// Collators keep internal buffers, so each call gets its own.
	c := collate.New(language.Und, collate.Loose, collate.Numeric)

	sort.SliceStable(lines, func(i, j int) bool {
		if order == SortDescending {
			return c.CompareString(lines[j], lines[i]) < 0
		}
		return c.CompareString(lines[i], lines[j]) < 0
	})

	return strings.Join(lines, "\n")
}

// Apply runs the transform selected by req. The only errors are an unknown
// operation or selector; the transforms themselves cannot fail.
func Apply(s string, req Request) (Result, error) {
	switch req.Op {
	case OpCase:
		if _, err := ParseCaseKind(string(req.Case)); err != nil {
			return Result{}, err
		}
		return Result{Text: ApplyCase(s, req.Case)}, nil
	case OpWhitespace:
		return Result{Text: CleanWhitespace(s)}, nil
	case OpDedupe:
		out, removed := DeduplicateLines(s)
		return Result{Text: out, RemovedCount: removed}, nil
	case OpReverse:
		if _, err := ParseReverseKind(string(req.Reverse)); err != nil {
			return Result{}, err
		}
		return Result{Text: Reverse(s, req.Reverse)}, nil
	case OpSort:
		if _, err := ParseSortOrder(string(req.Order)); err != nil {
			return Result{}, err
		}
		return Result{Text: SortLines(s, req.Order)}, nil
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownOperation, req.Op)
	}
}
