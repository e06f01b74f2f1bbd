package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tapline/tapline/internal/catalog"
	"github.com/tapline/tapline/internal/types"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the rule catalog",
	Long:  `Lists every post type with its required, recommended, and banned content slots, the structural limits of each copy mode, and the banned adjective list.`,
	RunE:  runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func runRules(_ *cobra.Command, _ []string) error {
	fmt.Println("Post types:")
	for _, postType := range catalog.PostTypes() {
		rules, err := catalog.Rules(postType)
		if err != nil {
			return fmt.Errorf("failed to load rules for %s: %w", postType, err)
		}
		fmt.Printf("  %s\n", postType)
		fmt.Printf("    required:    %s\n", joinSlots(rules.Required))
		fmt.Printf("    recommended: %s\n", joinSlots(rules.Recommended))
		if len(rules.Banned) > 0 {
			fmt.Printf("    banned:      %s\n", joinSlots(rules.Banned))
		}
	}

	fmt.Println()
	fmt.Println("Copy modes:")
	for _, mode := range catalog.CopyModes() {
		structure, err := catalog.Structure(mode)
		if err != nil {
			return fmt.Errorf("failed to load structure for %s: %w", mode, err)
		}
		fmt.Printf("  %s\n", mode)
		fmt.Printf("    paragraphs: %d\n", structure.Paragraphs)
		if structure.SentencesPerParagraph > 0 {
			fmt.Printf("    sentences per paragraph: %d\n", structure.SentencesPerParagraph)
		}
		if structure.MaxSentences > 0 {
			fmt.Printf("    max sentences: %d\n", structure.MaxSentences)
		}
		if structure.MaxWords > 0 {
			fmt.Printf("    max words: %d\n", structure.MaxWords)
		}
	}

	fmt.Println()
	fmt.Printf("Banned adjectives: %s\n", strings.Join(catalog.BannedAdjectives(), ", "))
	fmt.Printf("Relative time words: %s\n", strings.Join(catalog.RelativeTimeWords(), ", "))

	return nil
}

func joinSlots(slots []types.ContentSlot) string {
	if len(slots) == 0 {
		return "(none)"
	}
	parts := make([]string, len(slots))
	for i, slot := range slots {
		parts[i] = string(slot)
	}
	return strings.Join(parts, ", ")
}
