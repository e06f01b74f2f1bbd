// Package catalog provides the static content rule tables: post type →
// slot rules and copy mode → structure rules. The tables are embedded at
// compile time, validated against a JSON schema on first use, and never
// mutated afterwards, so they are safe to share across concurrent
// pipeline runs without synchronization.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/tapline/tapline/internal/types"
)

//go:embed rules.json
var rulesJSON []byte

//go:embed rules_schema.json
var schemaJSON []byte

// tables is the parsed shape of rules.json.
type tables struct {
	PostTypes         map[types.PostType]types.RuleSet       `json:"post_types"`
	CopyModes         map[types.CopyMode]types.StructureRule `json:"copy_modes"`
	BannedAdjectives  []string                               `json:"banned_adjectives"`
	RelativeTimeWords []string                               `json:"relative_time_words"`
}

var (
	loadOnce sync.Once
	loaded   *tables
	loadErr  error
)

// load parses and schema-validates the embedded catalog exactly once.
func load() (*tables, error) {
	loadOnce.Do(func() {
		result, err := gojsonschema.Validate(
			gojsonschema.NewBytesLoader(schemaJSON),
			gojsonschema.NewBytesLoader(rulesJSON),
		)
		if err != nil {
			loadErr = fmt.Errorf("failed to validate rule catalog: %w", err)
			return
		}
		if !result.Valid() {
			details := make([]string, 0, len(result.Errors()))
			for _, desc := range result.Errors() {
				details = append(details, desc.String())
			}
			loadErr = fmt.Errorf("rule catalog does not match schema: %s", strings.Join(details, "; "))
			return
		}

		var t tables
		if err := json.Unmarshal(rulesJSON, &t); err != nil {
			loadErr = fmt.Errorf("failed to parse rule catalog: %w", err)
			return
		}
		loaded = &t
	})
	return loaded, loadErr
}

// mustLoad returns the catalog tables, panicking on a corrupted build.
// The catalog is embedded, so a load failure is a deployment defect,
// never a runtime input error.
func mustLoad() *tables {
	t, err := load()
	if err != nil {
		panic(fmt.Sprintf("rule catalog is invalid: %v", err))
	}
	return t
}

// Rules returns the slot rule set for a post type. An unknown post type is
// a configuration error, not a recoverable input error.
func Rules(postType types.PostType) (types.RuleSet, error) {
	t, err := load()
	if err != nil {
		return types.RuleSet{}, err
	}
	rules, ok := t.PostTypes[postType]
	if !ok {
		return types.RuleSet{}, fmt.Errorf("unknown post type: %q", postType)
	}
	return rules, nil
}

// Structure returns the structural limits for a copy mode.
func Structure(mode types.CopyMode) (types.StructureRule, error) {
	t, err := load()
	if err != nil {
		return types.StructureRule{}, err
	}
	rule, ok := t.CopyModes[mode]
	if !ok {
		return types.StructureRule{}, fmt.Errorf("unknown copy mode: %q", mode)
	}
	return rule, nil
}

// PostTypes returns every known post type in sorted order.
func PostTypes() []types.PostType {
	t := mustLoad()
	names := make([]types.PostType, 0, len(t.PostTypes))
	for name := range t.PostTypes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// CopyModes returns every known copy mode in sorted order.
func CopyModes() []types.CopyMode {
	t := mustLoad()
	modes := make([]types.CopyMode, 0, len(t.CopyModes))
	for mode := range t.CopyModes {
		modes = append(modes, mode)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}

// BannedAdjectives returns the fixed list of adjectives that may never
// appear as whole words in accepted output.
func BannedAdjectives() []string {
	return mustLoad().BannedAdjectives
}

// RelativeTimeWords returns the invented relative-time words that may not
// appear unless the caller supplied a relative_label slot.
func RelativeTimeWords() []string {
	return mustLoad().RelativeTimeWords
}
