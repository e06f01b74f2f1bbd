package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tapline/tapline/internal/linting"
	"github.com/tapline/tapline/internal/normalizing"
	"github.com/tapline/tapline/internal/observability"
	"github.com/tapline/tapline/internal/types"
)

var lintCmd = &cobra.Command{
	Use:   "lint [draft-file]",
	Short: "Lint an existing draft against the house rules",
	Long: `Normalizes a draft and reports every rule violation it contains, unlike the generation pipeline which stops at the first one.

The draft is read from the given file, or from stdin when no file is provided.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLint,
}

var (
	lintPostType string
	lintCopyMode string
	lintSlots    []string
	lintMaxWords int
	lintRaw      bool
)

func init() {
	lintCmd.Flags().StringVarP(&lintPostType, "post-type", "p", "", "Post type the draft was written for (required)")
	lintCmd.Flags().StringVarP(&lintCopyMode, "copy-mode", "m", "", "Copy mode the draft was written for (required)")
	lintCmd.Flags().StringArrayVarP(&lintSlots, "slot", "s", nil, "Content slot as key=value (repeatable)")
	lintCmd.Flags().IntVar(&lintMaxWords, "max-words", 0, "Word cap override")
	lintCmd.Flags().BoolVar(&lintRaw, "raw", false, "Skip normalization and lint the draft as-is")
	_ = lintCmd.MarkFlagRequired("post-type")
	_ = lintCmd.MarkFlagRequired("copy-mode")

	rootCmd.AddCommand(lintCmd)
}

func runLint(_ *cobra.Command, args []string) error {
	draft, err := readDraft(args)
	if err != nil {
		return err
	}

	content, err := parseSlots(lintSlots)
	if err != nil {
		return err
	}

	policies := types.DefaultPolicies()
	if lintMaxWords > 0 {
		policies.MaxWords = lintMaxWords
	}

	input := &types.PostInput{
		PostType: types.PostType(lintPostType),
		CopyMode: types.CopyMode(lintCopyMode),
		Content:  content,
		Policies: policies,
	}

	text := draft
	if !lintRaw {
		text = normalizing.Normalize(draft, input.CopyMode)
	}

	violations, err := linting.Collect(text, input)
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintViolations(violations)

	if len(violations) > 0 {
		os.Exit(1)
	}
	return nil
}

func readDraft(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read draft file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read draft from stdin: %w", err)
	}
	return string(data), nil
}
