// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/tapline/tapline/internal/composing"
	"github.com/tapline/tapline/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxSlotsToShow is the default number of content slots to display
	maxSlotsToShow = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintPostInput outputs a human-readable summary of the request.
func (p *Printer) PrintPostInput(input *types.PostInput) {
	if input == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Type:     %s\n", input.PostType))
	sb.WriteString(fmt.Sprintf("Mode:     %s\n", input.CopyMode))
	if input.Platform != "" {
		sb.WriteString(fmt.Sprintf("Platform: %s\n", input.Platform))
	}
	if input.Brand.Voice != "" {
		sb.WriteString(fmt.Sprintf("Voice:    %s\n", input.Brand.Voice))
	}

	if len(input.Content) > 0 {
		sb.WriteString("\nFacts:\n")
		shown := 0
		for slot, value := range input.Content {
			if shown >= maxSlotsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(input.Content)-shown))
				break
			}
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", slot, value))
			shown++
		}
	}

	p.printBox("POST REQUEST", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPrompts outputs the composed system and user prompts.
func (p *Printer) PrintPrompts(prompts composing.PromptPair) {
	p.printBox("SYSTEM PROMPT", prompts.System)
	p.printBox("USER PROMPT", prompts.User)
}

// PrintLintResult outputs the verdict for a draft.
func (p *Printer) PrintLintResult(result types.LintResult) {
	var sb strings.Builder
	if result.OK {
		sb.WriteString("Verdict: ACCEPTED\n\n")
		sb.WriteString(result.Content)
	} else {
		sb.WriteString("Verdict: REJECTED\n")
		sb.WriteString(fmt.Sprintf("Reason:  %s", result.Reason))
	}
	p.printBox("LINT RESULT", sb.String())
}

// PrintViolations outputs every violation found in debug lint mode.
func (p *Printer) PrintViolations(violations []types.Violation) {
	if len(violations) == 0 {
		p.printBox("VIOLATIONS", "None")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total: %d\n\n", len(violations)))
	for i, v := range violations {
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, v.Type))
		sb.WriteString(fmt.Sprintf("    %s\n", v.Details))
	}
	p.printBox("VIOLATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDraft outputs the final accepted draft.
func (p *Printer) PrintDraft(content string, model string) {
	var sb strings.Builder
	sb.WriteString(content)
	if model != "" {
		sb.WriteString(fmt.Sprintf("\n\nModel: %s", model))
	}
	p.printBox("ACCEPTED DRAFT", sb.String())
}
