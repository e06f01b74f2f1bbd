// Package linting is the final gate before text is deemed publishable: it
// validates normalized model output against every content-policy and
// structure rule for the request. Checks run in a fixed order and the
// first failure wins; the engine promises "accept" or one authoritative
// reason to reject, never partial auto-repair.
package linting

import (
	"strings"

	"github.com/tapline/tapline/internal/catalog"
	"github.com/tapline/tapline/internal/types"
)

// Run lints normalized text against the input's rule set and policies.
// A failed check yields a rejection value, not an error; the returned
// error is reserved for catalog configuration faults (unknown post type
// or copy mode).
func Run(text string, input *types.PostInput) (types.LintResult, error) {
	d, err := prepare(text, input)
	if err != nil {
		return types.LintResult{}, err
	}

	for _, c := range orderedChecks() {
		if v := c(d); v != nil {
			return types.Reject(v.Details), nil
		}
	}
	return types.Accept(text), nil
}

// Collect runs every check regardless of earlier failures and returns all
// violations. This is a debug aid for tests and verbose tooling; the
// production contract remains the single first-failing reason from Run.
func Collect(text string, input *types.PostInput) ([]types.Violation, error) {
	d, err := prepare(text, input)
	if err != nil {
		return nil, err
	}

	var violations []types.Violation
	for _, c := range orderedChecks() {
		if v := c(d); v != nil {
			violations = append(violations, *v)
		}
	}
	return violations, nil
}

func prepare(text string, input *types.PostInput) (*draft, error) {
	rules, err := catalog.Rules(input.PostType)
	if err != nil {
		return nil, err
	}
	structure, err := catalog.Structure(input.CopyMode)
	if err != nil {
		return nil, err
	}

	return &draft{
		text:      text,
		lower:     strings.ToLower(text),
		input:     input,
		structure: structure,
		rules:     rules,
	}, nil
}
