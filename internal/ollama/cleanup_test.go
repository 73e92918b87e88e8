package ollama

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanCaption(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"FillerPrefixAndTrailingNewlines", "Here's a festive post! 🎄\n\n", "a festive post! 🎄"},
		{"Quotes", `"Spring into play! 🌷"`, "Spring into play! 🌷"},
		{"SingleQuotes", "'Toys for everyone'", "Toys for everyone"},
		{"Newlines", "Line one\nline two\n\n\nline three", "Line one line two line three"},
		{"Whitespace", "  lots   of \t space  ", "lots of space"},
		{"UnicodeWhitespace", "a\u00a0\u00a0 b\u2003\u2003c\v\vd\u2028e", "a b c d e"},
		{"HereIs", "Here is the best day ever", "the best day ever"},
		{"ISee", "I see kids playing with blocks 🧱", "kids playing with blocks 🧱"},
		{"InThisImage", "In this image a teddy bear waits", "a teddy bear waits"},
		{"PrefixInsideQuotes", "\"Here's fun\"", "fun"},
		{"PrefixNotAtStart", "Look, here's a toy", "Look, here's a toy"},
		{"Empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanCaption(tc.raw, DefaultFillerPrefixes))
		})
	}
}

func TestCleanCaption_Idempotent(t *testing.T) {
	inputs := []string{
		"Here's a festive post! 🎄\n\n",
		`""double quoted""`,
		"Here's Here is I see stacked fillers",
		"'\"mixed\"'",
		" \n\t ",
		"plain caption",
		"\u00a0Here's\u00a0\u00a0spaced\u2003out",
		"Here's \n\n \"quoted after filler\"",
	}
	for _, in := range inputs {
		once := CleanCaption(in, DefaultFillerPrefixes)
		assert.Equal(t, once, CleanCaption(once, DefaultFillerPrefixes), "input %q", in)
	}
}

func TestCleanCaption_CustomPrefixes(t *testing.T) {
	got := CleanCaption("Caption: Bring a friend!", []string{"Caption: "})
	assert.Equal(t, "Bring a friend!", got)

	got = CleanCaption("Here's unchanged", nil)
	assert.Equal(t, "Here's unchanged", got)
}
