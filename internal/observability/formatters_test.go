package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tapline/tapline/internal/composing"
	"github.com/tapline/tapline/internal/types"
)

func TestPrintPostInput(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	input := &types.PostInput{
		PostType: types.PostEvent,
		CopyMode: types.CopySingle,
		Platform: "facebook",
		Brand:    types.Brand{Voice: "Warm village pub"},
		Content: map[types.ContentSlot]string{
			types.SlotWhat: "quiz night",
			types.SlotWhen: "Thursday 8pm",
		},
	}

	p.PrintPostInput(input)
	output := buf.String()

	assert.Contains(t, output, "POST REQUEST")
	assert.Contains(t, output, "event")
	assert.Contains(t, output, "single")
	assert.Contains(t, output, "Warm village pub")
	assert.Contains(t, output, "quiz night")
}

func TestPrintPostInput_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPostInput(nil)

	assert.Empty(t, buf.String())
}

func TestPrintPrompts(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPrompts(composing.PromptPair{
		System: "system instructions",
		User:   "user request",
	})
	output := buf.String()

	assert.Contains(t, output, "SYSTEM PROMPT")
	assert.Contains(t, output, "system instructions")
	assert.Contains(t, output, "USER PROMPT")
	assert.Contains(t, output, "user request")
}

func TestPrintLintResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintLintResult(types.Accept("Quiz night Thursday 8pm."))
	assert.Contains(t, buf.String(), "ACCEPTED")
	assert.Contains(t, buf.String(), "Quiz night Thursday 8pm.")

	buf.Reset()
	p.PrintLintResult(types.Reject("Word limit exceeded (30/25)"))
	assert.Contains(t, buf.String(), "REJECTED")
	assert.Contains(t, buf.String(), "Word limit exceeded (30/25)")
}

func TestPrintViolations(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintViolations([]types.Violation{
		{Type: "banned_adjective", Details: `Banned word: "amazing"`},
		{Type: "word_count", Details: "Word limit exceeded (30/25)"},
	})
	output := buf.String()

	assert.Contains(t, output, "VIOLATIONS")
	assert.Contains(t, output, "Total: 2")
	assert.Contains(t, output, "banned_adjective")

	buf.Reset()
	p.PrintViolations(nil)
	assert.Contains(t, buf.String(), "None")
}

func TestPrintLongLinesAreTruncated(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	long := "a very long draft that goes on and on well past the box width limit of sixty characters"
	p.PrintDraft(long, "gemini-2.5-flash")
	output := buf.String()

	assert.Contains(t, output, "ACCEPTED DRAFT")
	assert.Contains(t, output, "...")
	assert.Contains(t, output, "gemini-2.5-flash")
}
