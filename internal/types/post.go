// Package types provides type definitions for structured data used throughout the tapline engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// PostType is a closed category of social post. Each post type carries its
// own required/recommended/banned slot rules in the catalog.
type PostType string

// Supported post types
const (
	PostEvent         PostType = "event"
	PostOffer         PostType = "offer"
	PostMenuHighlight PostType = "menu_highlight"
	PostHoursUpdate   PostType = "hours_update"
	PostSportScreen   PostType = "sport_screening"
	PostJob           PostType = "job_post"
	PostCommunityNote PostType = "community_note"
	PostBookingPush   PostType = "booking_push"
	PostServiceChange PostType = "service_change"
)

// ContentSlot is a named fact category a post may carry. Presence or absence
// of a slot is semantically meaningful: a slot banned for a post type must
// not be supplied, and must never survive into output.
type ContentSlot string

// Supported content slots
const (
	SlotWhat             ContentSlot = "what"
	SlotWhen             ContentSlot = "when"
	SlotWhere            ContentSlot = "where"
	SlotPriceOrTerms     ContentSlot = "price_or_terms"
	SlotHookOrBenefit    ContentSlot = "hook_or_benefit"
	SlotScarcityUrgency  ContentSlot = "scarcity_or_urgency"
	SlotLogistics        ContentSlot = "logistics"
	SlotCTAText          ContentSlot = "cta_text"
	SlotCTALink          ContentSlot = "cta_link"
	SlotSupportLink      ContentSlot = "support_link"
	SlotRelativeLabel    ContentSlot = "relative_label"
	SlotMicroIdentity    ContentSlot = "micro_identity"
)

// CopyMode is a structural template for output length and shape.
type CopyMode string

// Supported copy modes
const (
	CopySingle  CopyMode = "single"
	CopyTwoLine CopyMode = "two-line"
	CopyUltra   CopyMode = "ultra"
)

// RuleSet declares which slots a post type requires, recommends, and bans.
type RuleSet struct {
	Required    []ContentSlot `json:"required"`
	Recommended []ContentSlot `json:"recommended"`
	Banned      []ContentSlot `json:"banned,omitempty"`
}

// StructureRule binds a copy mode to its structural limits.
// SentencesPerParagraph is an exact per-paragraph count (two-line);
// MaxSentences caps total sentences (single, ultra). MaxWords of zero
// defers to the policy word cap.
type StructureRule struct {
	Paragraphs            int `json:"paragraphs"`
	SentencesPerParagraph int `json:"sentences_per_paragraph,omitempty"`
	MaxSentences          int `json:"max_sentences,omitempty"`
	MaxWords              int `json:"max_words,omitempty"`
}

// Brand holds the venue's voice description and optional micro-identity
// (a short recurring sign-off phrase, e.g. "Your village local").
type Brand struct {
	Voice         string `json:"voice"`
	MicroIdentity string `json:"micro_identity,omitempty"`
}

// PostInput is the aggregate generation request. It is constructed fresh
// per request and treated as immutable for the duration of one pipeline run.
type PostInput struct {
	Intent   string                 `json:"intent"`
	PostType PostType               `json:"post_type"`
	Platform string                 `json:"platform"`
	CopyMode CopyMode               `json:"copy_mode"`
	Brand    Brand                  `json:"brand"`
	Content  map[ContentSlot]string `json:"content"`
	Policies Policies               `json:"policies"`
}

// Slot returns the trimmed value of a content slot, or "" if absent.
func (p *PostInput) Slot(slot ContentSlot) string {
	return strings.TrimSpace(p.Content[slot])
}

// HasSlot reports whether a content slot was supplied with a non-empty value.
func (p *PostInput) HasSlot(slot ContentSlot) bool {
	return p.Slot(slot) != ""
}
