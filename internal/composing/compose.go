// Package composing builds the system and user prompts for one generation
// request. Prompt building is a pure function of the input: no clock
// reads, no randomness, fixed slot ordering. That determinism is what
// makes blind retries by an outer wrapper safe.
package composing

import (
	"fmt"
	"strings"

	"github.com/tapline/tapline/internal/catalog"
	"github.com/tapline/tapline/internal/prompts"
	"github.com/tapline/tapline/internal/types"
)

const promptFile = "generation.json"

// slotOrder fixes the rendering order of content slots so that identical
// inputs always yield byte-identical prompts.
var slotOrder = []types.ContentSlot{
	types.SlotWhat,
	types.SlotWhen,
	types.SlotWhere,
	types.SlotPriceOrTerms,
	types.SlotHookOrBenefit,
	types.SlotScarcityUrgency,
	types.SlotLogistics,
	types.SlotRelativeLabel,
	types.SlotCTAText,
	types.SlotCTALink,
	types.SlotSupportLink,
	types.SlotMicroIdentity,
}

// PromptPair holds the two messages sent to the completion backend.
type PromptPair struct {
	System string `json:"system"`
	User   string `json:"user"`
}

// BuildPrompts serializes a preflight-checked input into the system and
// user prompts. The input's post type and copy mode must exist in the
// catalog.
func BuildPrompts(input *types.PostInput) (PromptPair, error) {
	structure, err := catalog.Structure(input.CopyMode)
	if err != nil {
		return PromptPair{}, err
	}

	system, err := prompts.Get(promptFile, "system")
	if err != nil {
		return PromptPair{}, err
	}
	userTemplate, err := prompts.Get(promptFile, "user")
	if err != nil {
		return PromptPair{}, err
	}

	user := prompts.Format(userTemplate, map[string]string{
		"Brand":          brandSection(input),
		"Context":        contextSection(input),
		"Facts":          factsSection(input),
		"Policy":         policySection(input, structure),
		"FailConditions": failSection(input, structure),
	})

	return PromptPair{System: system, User: user}, nil
}

func brandSection(input *types.PostInput) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Voice: %s", strings.TrimSpace(input.Brand.Voice)))
	if identity := strings.TrimSpace(input.Brand.MicroIdentity); identity != "" {
		sb.WriteString(fmt.Sprintf("\nMicro-identity (optional sign-off): %s", identity))
	}
	return sb.String()
}

func contextSection(input *types.PostInput) string {
	return fmt.Sprintf("Intent: %s\nPost type: %s\nPlatform: %s\nCopy mode: %s",
		strings.TrimSpace(input.Intent), input.PostType, input.Platform, input.CopyMode)
}

func factsSection(input *types.PostInput) string {
	var sb strings.Builder
	for _, slot := range slotOrder {
		if value := input.Slot(slot); value != "" {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", slot, value))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func structureProse(mode types.CopyMode, structure types.StructureRule) string {
	switch {
	case structure.SentencesPerParagraph > 0:
		return fmt.Sprintf("Write exactly %d paragraphs of exactly %d sentence(s) each, separated by one blank line.",
			structure.Paragraphs, structure.SentencesPerParagraph)
	case structure.MaxSentences > 0:
		return fmt.Sprintf("Write exactly %d paragraph(s) with at most %d sentence(s) in total.",
			structure.Paragraphs, structure.MaxSentences)
	default:
		return fmt.Sprintf("Write exactly %d paragraph(s). (%s)", structure.Paragraphs, mode)
	}
}

func policySection(input *types.PostInput, structure types.StructureRule) string {
	var lines []string

	lines = append(lines, structureProse(input.CopyMode, structure))
	if limit := input.Policies.WordCap(structure); limit > 0 {
		lines = append(lines, fmt.Sprintf("Use at most %d words in total.", limit))
	}

	if input.Policies.AllowHashtags {
		lines = append(lines, "Hashtags are allowed but optional.")
	} else {
		lines = append(lines, "Do not use hashtags.")
	}
	if input.Policies.AllowEmojis {
		lines = append(lines, "Emojis are allowed but optional.")
	} else {
		lines = append(lines, "Do not use emojis.")
	}
	if input.Policies.AllowLightHumour {
		lines = append(lines, "Light humour is welcome where it fits the voice.")
	} else {
		lines = append(lines, "Keep the tone straight; no jokes or puns.")
	}

	if label := input.Slot(types.SlotRelativeLabel); label != "" {
		lines = append(lines, fmt.Sprintf("Use the timing phrase %q exactly once.", label))
	} else {
		lines = append(lines, "Do not use relative timing words (today, tonight, tomorrow, \"this Friday\" and similar).")
	}

	link := input.Policies.LinkPolicy
	if link.CTALink.Required {
		if ctaLink := input.Slot(types.SlotCTALink); ctaLink != "" {
			lines = append(lines, fmt.Sprintf("The final sentence must end with the exact link %s", ctaLink))
		}
	}
	if supportLink := input.Slot(types.SlotSupportLink); supportLink != "" {
		rule := fmt.Sprintf("The link %s may appear at most %d time(s)", supportLink, link.SupportLink.MaxCount)
		if link.SupportLink.NotInFinalSentence {
			rule += " and never in the final sentence"
		}
		lines = append(lines, rule+".")
	}

	return "- " + strings.Join(lines, "\n- ")
}

func failSection(input *types.PostInput, structure types.StructureRule) string {
	fails := []string{
		"any supplied fact is altered, or any fact is invented",
		"the paragraph or sentence structure differs from the policy",
	}
	if limit := input.Policies.WordCap(structure); limit > 0 {
		fails = append(fails, fmt.Sprintf("the post exceeds %d words", limit))
	}
	if !input.Policies.AllowHashtags {
		fails = append(fails, "a hashtag appears")
	}
	if !input.Policies.AllowEmojis {
		fails = append(fails, "an emoji appears")
	}
	if input.Policies.LinkPolicy.CTALink.Required && input.HasSlot(types.SlotCTALink) {
		fails = append(fails, "the final sentence does not end with the booking link")
	}
	fails = append(fails, "hype adjectives such as \"amazing\", \"stunning\" or \"ultimate\" appear")
	return "- " + strings.Join(fails, "\n- ")
}
