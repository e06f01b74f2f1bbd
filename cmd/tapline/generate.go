package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tapline/tapline/internal/config"
	"github.com/tapline/tapline/internal/db"
	"github.com/tapline/tapline/internal/llm"
	"github.com/tapline/tapline/internal/observability"
	"github.com/tapline/tapline/internal/pipeline"
	"github.com/tapline/tapline/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one post through the full pipeline",
	Long: `Runs a single generation attempt: preflight -> prompt composition -> one model call -> normalization -> lint.

The request can come from a JSON file (--input) or be assembled from flags. Configuration can be loaded from a JSON file using --config; command-line arguments override config file values.`,
	RunE: runGenerate,
}

var (
	genConfigPath    string
	genInput         string
	genIntent        string
	genPostType      string
	genCopyMode      string
	genPlatform      string
	genSlots         []string
	genBrandVoice    string
	genMicroIdentity string
	genMaxWords      int
	genModel         string
	genAPIKey        string
	genVenueID       string
	genDatabaseURL   string
	genVerbose       bool
)

func init() {
	generateCmd.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	generateCmd.Flags().StringVarP(&genInput, "input", "i", "", "Path to a JSON request file")
	generateCmd.Flags().StringVar(&genIntent, "intent", "", "What the post should achieve")
	generateCmd.Flags().StringVarP(&genPostType, "post-type", "p", "", "Post type (event, offer, menu_highlight, ...)")
	generateCmd.Flags().StringVarP(&genCopyMode, "copy-mode", "m", "", "Copy mode (single, two-line, ultra)")
	generateCmd.Flags().StringVar(&genPlatform, "platform", "", "Destination platform label")
	generateCmd.Flags().StringArrayVarP(&genSlots, "slot", "s", nil, "Content slot as key=value (repeatable, e.g. -s what='quiz night')")
	generateCmd.Flags().StringVar(&genBrandVoice, "brand-voice", "", "Short description of the venue's voice")
	generateCmd.Flags().StringVar(&genMicroIdentity, "micro-identity", "", "Optional sign-off phrase")
	generateCmd.Flags().IntVar(&genMaxWords, "max-words", 0, "Word cap override")
	generateCmd.Flags().StringVar(&genModel, "model", "", "Model override")
	generateCmd.Flags().StringVar(&genVenueID, "venue-id", "", "Venue ID; when set the run is recorded in the database")
	generateCmd.Flags().StringVar(&genDatabaseURL, "database-url", "", "PostgreSQL URL (optional, defaults to DATABASE_URL env var)")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	generateCmd.Flags().StringVar(&genAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if genConfigPath != "" {
		loadedCfg, err := config.LoadConfig(genConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
		if genVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", genConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	if cmd.Flags().Changed("input") {
		cfg.Input = genInput
	}
	if cmd.Flags().Changed("post-type") {
		cfg.PostType = genPostType
	}
	if cmd.Flags().Changed("copy-mode") {
		cfg.CopyMode = genCopyMode
	}
	if cmd.Flags().Changed("platform") {
		cfg.Platform = genPlatform
	}
	if cmd.Flags().Changed("brand-voice") {
		cfg.BrandVoice = genBrandVoice
	}
	if cmd.Flags().Changed("micro-identity") {
		cfg.MicroIdentity = genMicroIdentity
	}
	if cmd.Flags().Changed("max-words") {
		cfg.MaxWords = genMaxWords
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = genModel
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = genAPIKey
	}
	if cmd.Flags().Changed("venue-id") {
		cfg.VenueID = genVenueID
	}
	if cmd.Flags().Changed("database-url") {
		cfg.DatabaseURL = genDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = genVerbose
	}

	cfg = cfg.MergeWithDefaults(config.Config{Temperature: 0.4})

	// Step 3: Build the request
	input, err := buildPostInput(&cfg)
	if err != nil {
		return err
	}

	// Step 4: API key handling
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		printer.PrintPostInput(input)
	}

	opts := pipeline.Options{Model: cfg.Model, Temperature: float32(cfg.Temperature)}
	if cfg.Verbose {
		opts.OnProgress = func(event pipeline.ProgressEvent) {
			_, _ = fmt.Fprintf(os.Stdout, "[%s] %s\n", event.Stage, event.Message)
		}
	}

	result, err := pipeline.Generate(ctx, client, input, opts)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if cfg.VenueID != "" {
		if err := persistRun(ctx, &cfg, input, result); err != nil {
			return err
		}
	}

	if cfg.Verbose {
		printer.PrintPrompts(result.Prompts)
	}

	if result.Accepted {
		if cfg.Verbose {
			printer.PrintDraft(result.Content, result.Model)
		} else {
			fmt.Println(result.Content)
		}
		return nil
	}

	fmt.Println(result.Sentinel())
	os.Exit(2)
	return nil
}

// buildPostInput assembles the pipeline request from the input file or flags.
func buildPostInput(cfg *config.Config) (*types.PostInput, error) {
	if cfg.Input != "" {
		data, err := os.ReadFile(cfg.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		var req types.GenerateRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("failed to parse input JSON: %w", err)
		}

		policies := types.DefaultPolicies()
		if req.Policies != nil {
			policies = *req.Policies
		}
		if cfg.MaxWords > 0 {
			policies.MaxWords = cfg.MaxWords
		}

		return &types.PostInput{
			Intent:   req.Intent,
			PostType: req.PostType,
			Platform: req.Platform,
			CopyMode: req.CopyMode,
			Brand:    types.Brand{Voice: cfg.BrandVoice, MicroIdentity: cfg.MicroIdentity},
			Content:  req.Content,
			Policies: policies,
		}, nil
	}

	if cfg.PostType == "" {
		return nil, fmt.Errorf("--post-type is required (via flag, config, or --input file)")
	}
	if cfg.CopyMode == "" {
		return nil, fmt.Errorf("--copy-mode is required (via flag, config, or --input file)")
	}

	content, err := parseSlots(genSlots)
	if err != nil {
		return nil, err
	}

	policies := types.DefaultPolicies()
	if cfg.MaxWords > 0 {
		policies.MaxWords = cfg.MaxWords
	}

	return &types.PostInput{
		Intent:   genIntent,
		PostType: types.PostType(cfg.PostType),
		Platform: cfg.Platform,
		CopyMode: types.CopyMode(cfg.CopyMode),
		Brand:    types.Brand{Voice: cfg.BrandVoice, MicroIdentity: cfg.MicroIdentity},
		Content:  content,
		Policies: policies,
	}, nil
}

// runRecorder is the slice of database operations a CLI run needs.
type runRecorder interface {
	CreateRun(ctx context.Context, venueID uuid.UUID, postType, copyMode, platform string) (uuid.UUID, error)
	CompleteRun(ctx context.Context, runID uuid.UUID, status, model, reason string) error
	SavePost(ctx context.Context, runID, venueID uuid.UUID, content, model string) (uuid.UUID, error)
	RecordUsage(ctx context.Context, venueID, runID uuid.UUID, model string, accepted bool) error
}

// persistRun connects to the database and records a finished CLI run.
func persistRun(ctx context.Context, cfg *config.Config, input *types.PostInput, result pipeline.Result) error {
	venueID, err := uuid.Parse(cfg.VenueID)
	if err != nil {
		return fmt.Errorf("invalid venue ID %q: %w", cfg.VenueID, err)
	}

	databaseURL := cfg.DatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("--venue-id is set but no database URL is configured (--database-url or DATABASE_URL)")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	return recordRun(ctx, database, venueID, input, result)
}

// recordRun stores the run the same way the API does: a completed model
// call is charged before the verdict, accepted content becomes a post.
func recordRun(ctx context.Context, store runRecorder, venueID uuid.UUID, input *types.PostInput, result pipeline.Result) error {
	runID, err := store.CreateRun(ctx, venueID, string(input.PostType), string(input.CopyMode), input.Platform)
	if err != nil {
		return err
	}

	if result.ModelCalled {
		if err := store.RecordUsage(ctx, venueID, runID, result.Model, result.Accepted); err != nil {
			return err
		}
	}

	if result.Accepted {
		if _, err := store.SavePost(ctx, runID, venueID, result.Content, result.Model); err != nil {
			return err
		}
		return store.CompleteRun(ctx, runID, db.RunStatusAccepted, result.Model, "")
	}
	return store.CompleteRun(ctx, runID, db.RunStatusRejected, result.Model, result.Reason)
}

// parseSlots turns repeated key=value flags into a content map.
func parseSlots(slots []string) (map[types.ContentSlot]string, error) {
	content := make(map[types.ContentSlot]string, len(slots))
	for _, slot := range slots {
		key, value, found := strings.Cut(slot, "=")
		if !found || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid slot %q: expected key=value", slot)
		}
		content[types.ContentSlot(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return content, nil
}
