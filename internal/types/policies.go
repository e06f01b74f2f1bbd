package types

// Policies holds the content-policy toggles and limits active for one
// generation request.
type Policies struct {
	BritishEnglish   bool       `json:"british_english"`
	AllowHashtags    bool       `json:"allow_hashtags"`
	AllowEmojis      bool       `json:"allow_emojis"`
	AllowLightHumour bool       `json:"allow_light_humour"`
	MaxWords         int        `json:"max_words"`
	LinkPolicy       LinkPolicy `json:"link_policy"`
}

// LinkPolicy groups the CTA-link and support-link rules.
type LinkPolicy struct {
	CTALink     CTALinkPolicy     `json:"cta_link"`
	SupportLink SupportLinkPolicy `json:"support_link"`
}

// CTALinkPolicy controls the booking/call-to-action link. When Required is
// set, the trimmed final sentence of accepted output must end with the
// exact cta_link slot value.
type CTALinkPolicy struct {
	Required             bool `json:"required"`
	MustEndFinalSentence bool `json:"must_end_final_sentence"`
}

// SupportLinkPolicy controls secondary links (menus, fixture lists, job
// adverts). A support link may appear at most MaxCount times and, when
// NotInFinalSentence is set, never inside the final sentence.
type SupportLinkPolicy struct {
	MaxCount           int  `json:"max_count"`
	NotInFinalSentence bool `json:"not_in_final_sentence"`
}

// WordCap resolves the effective word limit for one request: the copy
// mode's own cap wins when it is stricter than the policy cap. Zero means
// no limit.
func (p Policies) WordCap(structure StructureRule) int {
	limit := p.MaxWords
	if structure.MaxWords > 0 && (limit == 0 || structure.MaxWords < limit) {
		limit = structure.MaxWords
	}
	return limit
}

// DefaultPolicies returns the platform-wide default policy set: British
// English, no hashtags or emojis, a 60-word cap and a single support link
// kept out of the final sentence.
func DefaultPolicies() Policies {
	return Policies{
		BritishEnglish: true,
		MaxWords:       60,
		LinkPolicy: LinkPolicy{
			CTALink: CTALinkPolicy{
				Required:             false,
				MustEndFinalSentence: true,
			},
			SupportLink: SupportLinkPolicy{
				MaxCount:           1,
				NotInFinalSentence: true,
			},
		},
	}
}
