package linting

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tapline/tapline/internal/catalog"
	"github.com/tapline/tapline/internal/types"
)

var (
	hashtagRe = regexp.MustCompile(`#\w`)

	// Meridiem tokens after an hour, any casing or spacing; the check
	// rejects anything the normalizer would not have produced, so both
	// "9 PM" and the detached "9 pm" fail.
	meridiemRe      = regexp.MustCompile(`\d(?::[0-5]\d)?(\s*)([AaPp][Mm])\b`)
	redundantZeroRe = regexp.MustCompile(`\d{1,2}:00\s*[AaPp][Mm]\b`)
	// Hyphen or spaced dash between the end of one time and the start of
	// the next; normalized ranges use a tight en dash.
	looseRangeRe = regexp.MustCompile(`(?i)\b\d{1,2}(?::[0-5]\d)?(?:am|pm)?(?:\s*-\s*|\s+[–—]\s*|\s*[–—]\s+)\d{1,2}(?::[0-5]\d)?(?:am|pm)\b`)

	weekdayRe = regexp.MustCompile(`(?i)\bthis\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
)

// check evaluates one lint rule against a prepared draft. A nil result
// means the rule passed.
type check func(d *draft) *types.Violation

// draft carries the normalized text and everything precomputed for the
// rule checks.
type draft struct {
	text      string
	lower     string
	input     *types.PostInput
	structure types.StructureRule
	rules     types.RuleSet
}

func violation(violationType, details string) *types.Violation {
	return &types.Violation{Type: violationType, Severity: "error", Details: details}
}

// orderedChecks returns every lint rule in the fixed evaluation order.
// The first failing check is the authoritative rejection reason.
func orderedChecks() []check {
	return []check{
		checkHashtags,
		checkEmojis,
		checkTimeFormat,
		checkRelativeLabel,
		checkWordCount,
		checkStructure,
		checkRequiredSlots,
		checkBannedSlots,
		checkBannedAdjectives,
		checkSupportLink,
		checkCTALink,
	}
}

func checkHashtags(d *draft) *types.Violation {
	if d.input.Policies.AllowHashtags {
		return nil
	}
	if hashtagRe.MatchString(d.text) {
		return violation("hashtag_emoji", "Hashtags are not allowed")
	}
	return nil
}

func checkEmojis(d *draft) *types.Violation {
	if d.input.Policies.AllowEmojis {
		return nil
	}
	for _, r := range d.text {
		if isEmoji(r) {
			return violation("hashtag_emoji", fmt.Sprintf("Emojis are not allowed (found %q)", r))
		}
	}
	return nil
}

// isEmoji reports whether a rune falls in the common emoji and pictograph
// blocks.
func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // pictographs, emoticons, symbols
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators, paired into flags
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r == 0x231A || r == 0x231B: // watch, hourglass
		return true
	case r >= 0x23E9 && r <= 0x23FA: // media controls, alarm clocks
		return true
	case r >= 0x1F000 && r <= 0x1F0FF: // mahjong, cards
		return true
	case r == 0xFE0F: // variation selector
		return true
	}
	return false
}

func checkTimeFormat(d *draft) *types.Violation {
	for _, groups := range meridiemRe.FindAllStringSubmatch(d.text, -1) {
		if groups[2] != "am" && groups[2] != "pm" {
			return violation("time_format", fmt.Sprintf("Time format violation: %q must be lowercase am/pm", groups[0]))
		}
		if groups[1] != "" {
			return violation("time_format", fmt.Sprintf("Time format violation: %q must not have a space before am/pm", groups[0]))
		}
	}
	if match := redundantZeroRe.FindString(d.text); match != "" {
		return violation("time_format", fmt.Sprintf("Time format violation: %q carries a redundant :00", match))
	}
	if match := looseRangeRe.FindString(d.text); match != "" {
		return violation("time_format", fmt.Sprintf("Time format violation: range %q must use an en dash with no spaces", match))
	}
	return nil
}

func checkRelativeLabel(d *draft) *types.Violation {
	label := d.input.Slot(types.SlotRelativeLabel)
	if label != "" {
		count := strings.Count(d.lower, strings.ToLower(label))
		if count != 1 {
			return violation("relative_label",
				fmt.Sprintf("Relative timing label %q appears %d times (want exactly 1)", label, count))
		}
		return nil
	}

	for _, word := range catalog.RelativeTimeWords() {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
		if re.MatchString(d.text) {
			return violation("relative_label", fmt.Sprintf("Invented relative timing word: %q", word))
		}
	}
	if match := weekdayRe.FindString(d.text); match != "" {
		return violation("relative_label", fmt.Sprintf("Invented relative timing phrase: %q", match))
	}
	return nil
}

func checkWordCount(d *draft) *types.Violation {
	limit := d.input.Policies.WordCap(d.structure)
	if limit == 0 {
		return nil
	}
	if words := countWords(d.text); words > limit {
		return violation("word_count", fmt.Sprintf("Word limit exceeded (%d/%d)", words, limit))
	}
	return nil
}

func checkStructure(d *draft) *types.Violation {
	paragraphs := splitParagraphs(d.text)
	if len(paragraphs) != d.structure.Paragraphs {
		return violation("structure",
			fmt.Sprintf("Structure violation: expected %d paragraph(s), got %d", d.structure.Paragraphs, len(paragraphs)))
	}

	if d.structure.SentencesPerParagraph > 0 {
		for i, paragraph := range paragraphs {
			if n := len(splitSentences(paragraph)); n != d.structure.SentencesPerParagraph {
				return violation("structure",
					fmt.Sprintf("Structure violation: paragraph %d has %d sentence(s), want exactly %d",
						i+1, n, d.structure.SentencesPerParagraph))
			}
		}
	}

	if d.structure.MaxSentences > 0 {
		total := 0
		for _, paragraph := range paragraphs {
			total += len(splitSentences(paragraph))
		}
		if total > d.structure.MaxSentences {
			return violation("structure",
				fmt.Sprintf("Structure violation: %d sentences exceed the limit of %d", total, d.structure.MaxSentences))
		}
	}
	return nil
}

func checkRequiredSlots(d *draft) *types.Violation {
	for _, slot := range d.rules.Required {
		value := d.input.Slot(slot)
		if value == "" {
			// Preflight guarantees presence; a hole here means the input
			// was mutated mid-run.
			return violation("missing_required_text", fmt.Sprintf("Required content missing: %s", slot))
		}
		if !strings.Contains(d.lower, strings.ToLower(value)) {
			return violation("missing_required_text",
				fmt.Sprintf("Required content missing: %s (%q not found in output)", slot, value))
		}
	}
	return nil
}

// checkBannedSlots re-checks the output independently of preflight: a
// banned slot value that slipped into the draft must not survive.
func checkBannedSlots(d *draft) *types.Violation {
	for _, slot := range d.rules.Banned {
		value := d.input.Slot(slot)
		if value == "" {
			continue
		}
		if strings.Contains(d.lower, strings.ToLower(value)) {
			return violation("banned_text", fmt.Sprintf("Banned content present: %s", slot))
		}
	}
	return nil
}

func checkBannedAdjectives(d *draft) *types.Violation {
	for _, word := range catalog.BannedAdjectives() {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
		if re.MatchString(d.text) {
			return violation("banned_adjective", fmt.Sprintf("Banned word: %q", word))
		}
	}
	return nil
}

func checkSupportLink(d *draft) *types.Violation {
	link := d.input.Slot(types.SlotSupportLink)
	if link == "" {
		return nil
	}
	policy := d.input.Policies.LinkPolicy.SupportLink

	count := strings.Count(d.lower, strings.ToLower(link))
	if count > policy.MaxCount {
		return violation("link_policy",
			fmt.Sprintf("Support link appears %d times (max %d)", count, policy.MaxCount))
	}
	if policy.NotInFinalSentence && count > 0 {
		if strings.Contains(strings.ToLower(finalSentence(d.text)), strings.ToLower(link)) {
			return violation("link_policy", "Support link must not appear in the final sentence")
		}
	}
	return nil
}

func checkCTALink(d *draft) *types.Violation {
	policy := d.input.Policies.LinkPolicy.CTALink
	if !policy.Required {
		return nil
	}

	link := d.input.Slot(types.SlotCTALink)
	if link == "" {
		return violation("link_policy", "CTA link is required but no cta_link content was supplied")
	}
	if !strings.Contains(d.lower, strings.ToLower(link)) {
		return violation("link_policy", fmt.Sprintf("CTA link missing: output does not contain %s", link))
	}
	if policy.MustEndFinalSentence {
		final := strings.TrimSpace(finalSentence(d.text))
		if !strings.HasSuffix(final, link) {
			return violation("link_policy",
				fmt.Sprintf("CTA link missing from final sentence: it must end with %s", link))
		}
	}
	return nil
}
