package text_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/edgard/textbot/internal/text"
)

func TestApplyCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		kind     text.CaseKind
		expected string
	}{
		{name: "upper", input: "hello World 123", kind: text.CaseUpper, expected: "HELLO WORLD 123"},
		{name: "upper full mapping", input: "straße", kind: text.CaseUpper, expected: "STRASSE"},
		{name: "lower", input: "HeLLo WoRLD", kind: text.CaseLower, expected: "hello world"},
		{name: "title", input: "hello wORLD", kind: text.CaseTitle, expected: "Hello World"},
		{name: "title after apostrophe", input: "o'brien's pub", kind: text.CaseTitle, expected: "O'Brien'S Pub"},
		{name: "title underscores join words", input: "hello_world foo-bar 3rd", kind: text.CaseTitle, expected: "Hello_world Foo-Bar 3rd"},
		{
			name:     "sentence",
			input:    "hello world. this is IT.  another one! not here",
			kind:     text.CaseSentence,
			expected: "Hello world. This is it.  Another one! not here",
		},
		{name: "sentence with leading space", input: "   leading space. x", kind: text.CaseSentence, expected: "   leading space. X"},
		{name: "sentence across lines", input: "one.\ntwo", kind: text.CaseSentence, expected: "One.\nTwo"},
		{name: "empty", input: "", kind: text.CaseTitle, expected: ""},
		{name: "unknown kind", input: "Keep Me", kind: text.CaseKind("kebab"), expected: "Keep Me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := text.ApplyCase(tt.input, tt.kind); got != tt.expected {
				t.Errorf("ApplyCase(%q, %q) = %q, want %q", tt.input, tt.kind, got, tt.expected)
			}
		})
	}
}

func TestApplyCase_UpperIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "mixed Case", "straße", "ǅemal", "ΣΊΣΥΦΟΣ σοφός"}
	for _, in := range inputs {
		once := text.ApplyCase(in, text.CaseUpper)
		twice := text.ApplyCase(once, text.CaseUpper)
		if once != twice {
			t.Errorf("upper not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestCleanWhitespace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "spaces tabs and line breaks", input: "a   b\t\tc\n\n\n\nd", expected: "a b c\n\nd"},
		{name: "two line breaks are kept", input: "a\n\nb", expected: "a\n\nb"},
		{name: "line breaks with whitespace between", input: "a\n \n \n \nb", expected: "a\n\nb"},
		{name: "trims ends", input: "  a \t b  \n\n  c  ", expected: "a b \n\n c"},
		{name: "single tab becomes a space", input: "a\tb", expected: "a b"},
		{name: "empty", input: "", expected: ""},
		{name: "only whitespace", input: " \t\n\n\n ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := text.CleanWhitespace(tt.input); got != tt.expected {
				t.Errorf("CleanWhitespace(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDeduplicateLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		input           string
		expected        string
		expectedRemoved int
	}{
		{name: "keeps first occurrences in order", input: "a\nb\na\nc\nb", expected: "a\nb\nc", expectedRemoved: 2},
		{name: "all duplicates", input: "a\na\na", expected: "a", expectedRemoved: 2},
		{name: "blank lines are lines too", input: "a\n\nb\n\n", expected: "a\n\nb", expectedRemoved: 2},
		{name: "case sensitive", input: "A\na", expected: "A\na", expectedRemoved: 0},
		{name: "empty", input: "", expected: "", expectedRemoved: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, removed := text.DeduplicateLines(tt.input)
			if got != tt.expected {
				t.Errorf("DeduplicateLines(%q) text = %q, want %q", tt.input, got, tt.expected)
			}
			if removed != tt.expectedRemoved {
				t.Errorf("DeduplicateLines(%q) removed = %d, want %d", tt.input, removed, tt.expectedRemoved)
			}
		})
	}
}

func TestReverse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		kind     text.ReverseKind
		expected string
	}{
		{name: "letters", input: "abc", kind: text.ReverseLetters, expected: "cba"},
		{name: "letters multi-byte", input: "héllo 世界", kind: text.ReverseLetters, expected: "界世 olléh"},
		{name: "words", input: "one two three", kind: text.ReverseWords, expected: "three two one"},
		{name: "words keep empty tokens", input: "one two  three", kind: text.ReverseWords, expected: "three  two one"},
		{name: "words ignore newlines", input: "a b\nc d", kind: text.ReverseWords, expected: "d b\nc a"},
		{name: "lines", input: "1\n2\n3", kind: text.ReverseLines, expected: "3\n2\n1"},
		{name: "lines with trailing newline", input: "1\n2\n", kind: text.ReverseLines, expected: "\n2\n1"},
		{name: "empty", input: "", kind: text.ReverseLines, expected: ""},
		{name: "unknown kind", input: "abc", kind: text.ReverseKind("sideways"), expected: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := text.Reverse(tt.input, tt.kind); got != tt.expected {
				t.Errorf("Reverse(%q, %q) = %q, want %q", tt.input, tt.kind, got, tt.expected)
			}
		})
	}
}

func TestReverse_LettersRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "a", "Hello, World!", "line one\nline two", "emoji 🚀 世界"}
	for _, in := range inputs {
		if got := text.Reverse(text.Reverse(in, text.ReverseLetters), text.ReverseLetters); got != in {
			t.Errorf("letters round trip of %q = %q", in, got)
		}
	}
}

func TestSortLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    []string
		order    text.SortOrder
		expected []string
	}{
		{name: "prefix sorts first", input: []string{"b", "a", "b2"}, order: text.SortAscending, expected: []string{"a", "b", "b2"}},
		{name: "numeric aware", input: []string{"item10", "item2"}, order: text.SortAscending, expected: []string{"item2", "item10"}},
		{name: "numeric runs", input: []string{"x10", "x9", "x100"}, order: text.SortAscending, expected: []string{"x9", "x10", "x100"}},
		{name: "case insensitive", input: []string{"banana", "Apple", "cherry"}, order: text.SortAscending, expected: []string{"Apple", "banana", "cherry"}},
		{name: "descending", input: []string{"banana", "Apple", "cherry"}, order: text.SortDescending, expected: []string{"cherry", "banana", "Apple"}},
		{name: "stable ascending", input: []string{"b", "B", "a"}, order: text.SortAscending, expected: []string{"a", "b", "B"}},
		{name: "stable descending", input: []string{"b", "B", "a"}, order: text.SortDescending, expected: []string{"b", "B", "a"}},
		{name: "empty lines are kept", input: []string{"b", "", "a"}, order: text.SortAscending, expected: []string{"", "a", "b"}},
		{name: "accents are ignored", input: []string{"zebra", "éclair", "eagle"}, order: text.SortAscending, expected: []string{"eagle", "éclair", "zebra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := strings.Split(text.SortLines(strings.Join(tt.input, "\n"), tt.order), "\n")
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("SortLines(%q, %q) mismatch (-want +got):\n%s", tt.input, tt.order, diff)
			}
		})
	}
}

func TestSortLines_UnknownOrder(t *testing.T) {
	t.Parallel()

	if got := text.SortLines("b\na", text.SortOrder("random")); got != "b\na" {
		t.Errorf("SortLines with unknown order = %q, want input unchanged", got)
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		req      text.Request
		expected text.Result
		wantErr  error
	}{
		{
			name:     "case",
			input:    "hello",
			req:      text.Request{Op: text.OpCase, Case: text.CaseUpper},
			expected: text.Result{Text: "HELLO"},
		},
		{
			name:     "whitespace",
			input:    " a  b ",
			req:      text.Request{Op: text.OpWhitespace},
			expected: text.Result{Text: "a b"},
		},
		{
			name:     "dedupe reports removed lines",
			input:    "a\nb\na\nc\nb",
			req:      text.Request{Op: text.OpDedupe},
			expected: text.Result{Text: "a\nb\nc", RemovedCount: 2},
		},
		{
			name:     "reverse",
			input:    "a\nb",
			req:      text.Request{Op: text.OpReverse, Reverse: text.ReverseLines},
			expected: text.Result{Text: "b\na"},
		},
		{
			name:     "sort",
			input:    "item10\nitem2",
			req:      text.Request{Op: text.OpSort, Order: text.SortAscending},
			expected: text.Result{Text: "item2\nitem10"},
		},
		{
			name:    "unknown operation",
			input:   "x",
			req:     text.Request{Op: text.Operation("shuffle")},
			wantErr: text.ErrUnknownOperation,
		},
		{
			name:    "missing case kind",
			input:   "x",
			req:     text.Request{Op: text.OpCase},
			wantErr: text.ErrUnknownKind,
		},
		{
			name:    "bad sort order",
			input:   "x",
			req:     text.Request{Op: text.OpSort, Order: text.SortOrder("up")},
			wantErr: text.ErrUnknownKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := text.Apply(tt.input, tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Apply() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApply_StatisticsFollowTransformedText(t *testing.T) {
	t.Parallel()

	source := "one. two.\n\n\n\nthree   four"
	res, err := text.Apply(source, text.Request{Op: text.OpWhitespace})
	if err != nil {
		t.Fatalf("Apply() unexpected error: %v", err)
	}

	got := text.ComputeStatistics(res.Text)
	want := text.ComputeStatistics("one. two.\n\nthree four")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("statistics of transformed text mismatch (-want +got):\n%s", diff)
	}
}

func TestParseKinds(t *testing.T) {
	t.Parallel()

	if k, err := text.ParseCaseKind("title"); err != nil || k != text.CaseTitle {
		t.Errorf("ParseCaseKind(title) = %q, %v", k, err)
	}
	if _, err := text.ParseCaseKind("camel"); !errors.Is(err, text.ErrUnknownKind) {
		t.Errorf("ParseCaseKind(camel) error = %v, want ErrUnknownKind", err)
	}
	if k, err := text.ParseReverseKind("words"); err != nil || k != text.ReverseWords {
		t.Errorf("ParseReverseKind(words) = %q, %v", k, err)
	}
	if _, err := text.ParseReverseKind("chars"); !errors.Is(err, text.ErrUnknownKind) {
		t.Errorf("ParseReverseKind(chars) error = %v, want ErrUnknownKind", err)
	}
	if o, err := text.ParseSortOrder("descending"); err != nil || o != text.SortDescending {
		t.Errorf("ParseSortOrder(descending) = %q, %v", o, err)
	}
	if _, err := text.ParseSortOrder("sideways"); !errors.Is(err, text.ErrUnknownKind) {
		t.Errorf("ParseSortOrder(sideways) error = %v, want ErrUnknownKind", err)
	}
}
