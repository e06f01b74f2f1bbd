// Package normalizing applies the deterministic text canonicalization
// pass to raw model output before linting: time formats, dash ranges,
// whitespace and punctuation. Normalize is idempotent; re-applying it to
// already-normalized text returns the same text unchanged.
package normalizing

import (
	"regexp"
	"strings"

	"github.com/tapline/tapline/internal/types"
)

var (
	// 7:00 PM, 7 pm, 9:30PM and friends
	timeRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?::([0-5]\d))?\s*(am|pm)\b`)
	// 7pm - 9:30pm, 12 – 11pm; meridiem required on the closing time so
	// plain numeric spans are left alone
	rangeRe = regexp.MustCompile(`\b(\d{1,2}(?::[0-5]\d)?(?:am|pm)?)\s*[-–—]\s*(\d{1,2}(?::[0-5]\d)?(?:am|pm))\b`)

	spaceRunRe    = regexp.MustCompile(`[ \t]+`)
	paragraphRe   = regexp.MustCompile(`\n+`)
	prePunctRe    = regexp.MustCompile(` +([,.!?;:])`)
	doubleSpaceRe = regexp.MustCompile(`  +`)
)

// Normalize canonicalizes raw model output for a given copy mode. Applied
// in order: trim, time formats, dash ranges, whitespace, punctuation.
func Normalize(raw string, mode types.CopyMode) string {
	text := strings.TrimSpace(raw)
	text = strings.ReplaceAll(text, "\r\n", "\n")

	text = normalizeTimes(text)
	text = rangeRe.ReplaceAllString(text, "$1–$2")
	text = normalizeWhitespace(text, mode)

	text = prePunctRe.ReplaceAllString(text, "$1")
	text = doubleSpaceRe.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// normalizeTimes lowercases am/pm, glues the meridiem to the hour and
// drops redundant ":00" minutes: "7:00 PM" becomes "7pm", "9:30 PM"
// becomes "9:30pm".
func normalizeTimes(text string) string {
	return timeRe.ReplaceAllStringFunc(text, func(match string) string {
		groups := timeRe.FindStringSubmatch(match)
		hour, minutes, meridiem := groups[1], groups[2], strings.ToLower(groups[3])
		if minutes == "" || minutes == "00" {
			return hour + meridiem
		}
		return hour + ":" + minutes + meridiem
	})
}

// normalizeWhitespace collapses runs of spaces and tabs, trims line ends,
// and resolves paragraph breaks per copy mode: two-line output keeps
// exactly one blank line between paragraphs, every other mode is joined
// into a single paragraph.
func normalizeWhitespace(text string, mode types.CopyMode) string {
	text = spaceRunRe.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	if mode == types.CopyTwoLine {
		paragraphs := paragraphRe.Split(text, -1)
		kept := paragraphs[:0]
		for _, p := range paragraphs {
			if p != "" {
				kept = append(kept, p)
			}
		}
		return strings.Join(kept, "\n\n")
	}

	return paragraphRe.ReplaceAllString(text, " ")
}
