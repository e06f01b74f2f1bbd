// Package preflight validates a generation request against the rule
// catalog before any model call is made. A preflight rejection is the
// cheapest failure mode in the engine: it costs nothing and prevents
// spending a generation call on an input that cannot possibly pass the
// compliance linter.
package preflight

import (
	"fmt"
	"strings"

	"github.com/tapline/tapline/internal/catalog"
	"github.com/tapline/tapline/internal/types"
)

// Error describes a failed preflight check: required slots that are
// missing and banned slots that were supplied.
type Error struct {
	PostType      types.PostType
	Missing       []types.ContentSlot
	BannedPresent []types.ContentSlot
}

func (e *Error) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing required slots: %s", joinSlots(e.Missing)))
	}
	if len(e.BannedPresent) > 0 {
		parts = append(parts, fmt.Sprintf("banned slots supplied: %s", joinSlots(e.BannedPresent)))
	}
	return fmt.Sprintf("preflight failed for %s: %s", e.PostType, strings.Join(parts, "; "))
}

func joinSlots(slots []types.ContentSlot) string {
	names := make([]string, len(slots))
	for i, slot := range slots {
		names[i] = string(slot)
	}
	return strings.Join(names, ", ")
}

// Check validates the input's content slots against the post type's rule
// set. It returns nil when every required slot is present and no banned
// slot was supplied; otherwise it returns an *Error naming every offender.
// An unknown post type is surfaced as a plain error (configuration fault,
// not an input rejection).
func Check(input *types.PostInput) error {
	rules, err := catalog.Rules(input.PostType)
	if err != nil {
		return err
	}

	var missing []types.ContentSlot
	for _, slot := range rules.Required {
		if !input.HasSlot(slot) {
			missing = append(missing, slot)
		}
	}

	var bannedPresent []types.ContentSlot
	for _, slot := range rules.Banned {
		if input.HasSlot(slot) {
			bannedPresent = append(bannedPresent, slot)
		}
	}

	if len(missing) == 0 && len(bannedPresent) == 0 {
		return nil
	}

	return &Error{
		PostType:      input.PostType,
		Missing:       missing,
		BannedPresent: bannedPresent,
	}
}
