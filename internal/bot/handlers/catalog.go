package handlers

import (
	"fmt"

	"github.com/edgard/textbot/internal/text"
)

// transformOp is one transform command: its slash command, panel label, menu
// description and the request it sends to the transform engine.
type transformOp struct {
	command     string
	label       string
	description string
	request     text.Request
	success     func(res text.Result) string
}

func constant(msg string) func(text.Result) string {
	return func(text.Result) string { return msg }
}

// transformCatalog lists the transform commands in panel order.
var transformCatalog = []transformOp{
	{
		command:     "upper",
		label:       "UPPER",
		description: "Convert text to upper case",
		request:     text.Request{Op: text.OpCase, Case: text.CaseUpper},
		success:     constant("Text converted to upper case!"),
	},
	{
		command:     "lower",
		label:       "lower",
		description: "Convert text to lower case",
		request:     text.Request{Op: text.OpCase, Case: text.CaseLower},
		success:     constant("Text converted to lower case!"),
	},
	{
		command:     "title",
		label:       "Title",
		description: "Capitalize every word",
		request:     text.Request{Op: text.OpCase, Case: text.CaseTitle},
		success:     constant("Text converted to title case!"),
	},
	{
		command:     "sentence",
		label:       "Sentence",
		description: "Capitalize every sentence",
		request:     text.Request{Op: text.OpCase, Case: text.CaseSentence},
		success:     constant("Text converted to sentence case!"),
	},
	{
		command:     "clean",
		label:       "🧹 Clean",
		description: "Remove extra spaces and blank lines",
		request:     text.Request{Op: text.OpWhitespace},
		success:     constant("Extra spaces removed!"),
	},
	{
		command:     "dedup",
		label:       "🧬 Dedup",
		description: "Remove duplicate lines",
		request:     text.Request{Op: text.OpDedupe},
		success: func(res text.Result) string {
			return fmt.Sprintf("Removed %d duplicate line(s)!", res.RemovedCount)
		},
	},
	{
		command:     "reverse_letters",
		label:       "↔️ Letters",
		description: "Reverse the letters",
		request:     text.Request{Op: text.OpReverse, Reverse: text.ReverseLetters},
		success:     constant("Text reversed by letters!"),
	},
	{
		command:     "reverse_words",
		label:       "↔️ Words",
		description: "Reverse the word order",
		request:     text.Request{Op: text.OpReverse, Reverse: text.ReverseWords},
		success:     constant("Text reversed by words!"),
	},
	{
		command:     "reverse_lines",
		label:       "↕️ Lines",
		description: "Reverse the line order",
		request:     text.Request{Op: text.OpReverse, Reverse: text.ReverseLines},
		success:     constant("Text reversed by lines!"),
	},
	{
		command:     "sort_asc",
		label:       "Sort A→Z",
		description: "Sort lines A to Z",
		request:     text.Request{Op: text.OpSort, Order: text.SortAscending},
		success:     constant("Text sorted A→Z!"),
	},
	{
		command:     "sort_desc",
		label:       "Sort Z→A",
		description: "Sort lines Z to A",
		request:     text.Request{Op: text.OpSort, Order: text.SortDescending},
		success:     constant("Text sorted Z→A!"),
	},
}
