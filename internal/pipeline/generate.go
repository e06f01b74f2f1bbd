// Package pipeline provides the high-level orchestration for one content
// generation attempt: preflight → prompt build → one model call →
// normalize → lint. There is no feedback loop or retry inside the
// pipeline; a rejection is terminal for the attempt and the decision to
// retry belongs to the caller.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tapline/tapline/internal/composing"
	"github.com/tapline/tapline/internal/linting"
	"github.com/tapline/tapline/internal/llm"
	"github.com/tapline/tapline/internal/normalizing"
	"github.com/tapline/tapline/internal/preflight"
	"github.com/tapline/tapline/internal/types"
)

// RevisionPrefix is the legacy sentinel carried on the string channel to
// callers that cannot consume a structured Result. It must never reach an
// end user or a publishing queue.
const RevisionPrefix = "NEEDS-REVISION: "

// Stage names reported through the progress callback.
const (
	StagePreflight = "preflight"
	StageCompose   = "compose"
	StageGenerate  = "generate"
	StageNormalize = "normalize"
	StageLint      = "lint"
)

// ProgressEvent reports one completed pipeline stage.
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// ProgressCallback is called as pipeline stages complete.
type ProgressCallback func(event ProgressEvent)

// Options holds per-run configuration for the orchestrator.
type Options struct {
	// Model overrides the model choice; empty selects by copy mode
	// (advanced tier for ultra, standard otherwise).
	Model       string
	Temperature float32
	MaxTokens   int32
	OnProgress  ProgressCallback
}

// Result is the outcome of one generation attempt. Rejections are values,
// not errors, so callers cannot accidentally publish a reason string.
type Result struct {
	Accepted bool                 `json:"accepted"`
	Content  string               `json:"content,omitempty"`
	Reason   string               `json:"reason,omitempty"`
	Prompts  composing.PromptPair `json:"prompts"`
	Model    string               `json:"model,omitempty"`
	// ModelCalled reports whether the completion backend was invoked;
	// preflight rejections leave it false.
	ModelCalled bool `json:"model_called"`
}

// Sentinel renders the result for the legacy string channel: the accepted
// content, or the reason behind the NEEDS-REVISION prefix.
func (r Result) Sentinel() string {
	if r.Accepted {
		return r.Content
	}
	return RevisionPrefix + r.Reason
}

func emit(opts *Options, stage, message string) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Stage: stage, Message: message})
	}
}

// pickModel chooses the model for a request: the advanced tier for ultra
// copy (tight structural constraints), standard otherwise.
func pickModel(config *llm.Config, input *types.PostInput) string {
	if input.CopyMode == types.CopyUltra {
		return config.GetModel(llm.TierAdvanced)
	}
	return config.GetModel(llm.TierStandard)
}

// Generate runs one full pipeline attempt. The returned error covers
// configuration faults and transport failures only; policy rejections
// (preflight or lint) come back as a Result with Accepted false.
func Generate(ctx context.Context, client llm.Client, input *types.PostInput, opts Options) (Result, error) {
	result := Result{}

	if err := preflight.Check(input); err != nil {
		var pfErr *preflight.Error
		if !errors.As(err, &pfErr) {
			// unknown post type or corrupted catalog
			return Result{}, err
		}
		emit(&opts, StagePreflight, pfErr.Error())
		result.Reason = pfErr.Error()
		return result, nil
	}
	emit(&opts, StagePreflight, "input passed preflight")

	promptPair, err := composing.BuildPrompts(input)
	if err != nil {
		return Result{}, err
	}
	result.Prompts = promptPair
	emit(&opts, StageCompose, fmt.Sprintf("built prompts (%d + %d chars)", len(promptPair.System), len(promptPair.User)))

	model := opts.Model
	if model == "" {
		model = pickModel(llm.DefaultConfig(), input)
	}
	result.Model = model

	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.4
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 512
	}

	raw, err := client.Complete(ctx, llm.ChatRequest{
		Model: model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: promptPair.System},
			{Role: llm.RoleUser, Content: promptPair.User},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	result.ModelCalled = true
	if err != nil {
		return result, fmt.Errorf("generation failed: %w", err)
	}
	emit(&opts, StageGenerate, fmt.Sprintf("model returned %d chars", len(raw)))

	// The system prompt instructs the model to refuse when it cannot
	// satisfy a rule; honour that refusal as a rejection.
	if trimmed := strings.TrimSpace(raw); strings.HasPrefix(trimmed, strings.TrimSpace(RevisionPrefix)) {
		result.Reason = strings.TrimSpace(strings.TrimPrefix(trimmed, strings.TrimSpace(RevisionPrefix)))
		return result, nil
	}

	normalized := normalizing.Normalize(raw, input.CopyMode)
	emit(&opts, StageNormalize, "normalized draft")

	lintResult, err := linting.Run(normalized, input)
	if err != nil {
		return result, err
	}
	if !lintResult.OK {
		emit(&opts, StageLint, "rejected: "+lintResult.Reason)
		result.Reason = lintResult.Reason
		return result, nil
	}
	emit(&opts, StageLint, "draft accepted")

	result.Accepted = true
	result.Content = lintResult.Content
	return result, nil
}
