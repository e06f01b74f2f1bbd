package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapline/tapline/internal/llm"
	"github.com/tapline/tapline/internal/types"
)

func quizInput() *types.PostInput {
	return &types.PostInput{
		Intent:   "Promote the weekly quiz",
		PostType: types.PostEvent,
		Platform: "facebook",
		CopyMode: types.CopySingle,
		Brand:    types.Brand{Voice: "Warm village pub"},
		Content: map[types.ContentSlot]string{
			types.SlotWhat:  "quiz night",
			types.SlotWhen:  "Thursday 8pm",
			types.SlotWhere: "The Fox & Hounds",
		},
		Policies: types.DefaultPolicies(),
	}
}

func TestGenerate_AcceptsCompliantDraft(t *testing.T) {
	spy := &llm.Spy{Response: "Quiz night at The Fox & Hounds, Thursday 8pm. Bring a team and a thirst."}

	result, err := Generate(t.Context(), spy, quizInput(), Options{})
	require.NoError(t, err)

	assert.True(t, result.Accepted)
	assert.Equal(t, "Quiz night at The Fox & Hounds, Thursday 8pm. Bring a team and a thirst.", result.Content)
	assert.True(t, result.ModelCalled)
	assert.Equal(t, 1, spy.Calls())

	// the spy received exactly one system and one user message, in order
	require.Len(t, spy.Requests[0].Messages, 2)
	assert.Equal(t, llm.RoleSystem, spy.Requests[0].Messages[0].Role)
	assert.Equal(t, llm.RoleUser, spy.Requests[0].Messages[1].Role)
}

func TestGenerate_NormalizesBeforeLinting(t *testing.T) {
	spy := &llm.Spy{Response: "Quiz night at The Fox & Hounds, Thursday 8:00 PM.  Bring a team !"}

	result, err := Generate(t.Context(), spy, quizInput(), Options{})
	require.NoError(t, err)

	require.True(t, result.Accepted, "got rejection: %s", result.Reason)
	assert.Equal(t, "Quiz night at The Fox & Hounds, Thursday 8pm. Bring a team!", result.Content)
}

// Missing required slot: the pipeline must reject without invoking the
// completion backend at all.
func TestGenerate_PreflightRejectionMakesNoModelCall(t *testing.T) {
	input := quizInput()
	delete(input.Content, types.SlotWhere)

	spy := &llm.Spy{Response: "should never be requested"}
	result, err := Generate(t.Context(), spy, input, Options{})
	require.NoError(t, err)

	assert.False(t, result.Accepted)
	assert.False(t, result.ModelCalled)
	assert.Contains(t, result.Reason, "missing required slots")
	assert.Contains(t, result.Reason, "where")
	assert.Zero(t, spy.Calls(), "preflight rejection must not spend a generation call")
}

func TestGenerate_BannedSlotRejectedBeforeModelCall(t *testing.T) {
	input := quizInput()
	input.PostType = types.PostHoursUpdate
	input.Content = map[types.ContentSlot]string{
		types.SlotWhat:            "festive hours",
		types.SlotWhen:            "from 23 December",
		types.SlotScarcityUrgency: "Limited tables!",
	}

	spy := &llm.Spy{}
	result, err := Generate(t.Context(), spy, input, Options{})
	require.NoError(t, err)

	assert.False(t, result.Accepted)
	assert.Contains(t, result.Reason, "scarcity_or_urgency")
	assert.Zero(t, spy.Calls())
}

func TestGenerate_LintRejectionIsValueNotError(t *testing.T) {
	spy := &llm.Spy{Response: "An amazing quiz night at The Fox & Hounds, Thursday 8pm."}

	result, err := Generate(t.Context(), spy, quizInput(), Options{})
	require.NoError(t, err)

	assert.False(t, result.Accepted)
	assert.Equal(t, `Banned word: "amazing"`, result.Reason)
	assert.True(t, result.ModelCalled)
	assert.Equal(t, 1, spy.Calls())
}

func TestGenerate_ModelRefusalBecomesRejection(t *testing.T) {
	spy := &llm.Spy{Response: "NEEDS-REVISION: cannot fit the venue name within the word cap"}

	result, err := Generate(t.Context(), spy, quizInput(), Options{})
	require.NoError(t, err)

	assert.False(t, result.Accepted)
	assert.Equal(t, "cannot fit the venue name within the word cap", result.Reason)
}

func TestGenerate_TransportFailurePropagates(t *testing.T) {
	spy := &llm.Spy{Err: errors.New("backend unreachable")}

	_, err := Generate(t.Context(), spy, quizInput(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unreachable")
}

func TestGenerate_UnknownPostTypeIsError(t *testing.T) {
	input := quizInput()
	input.PostType = types.PostType("mystery")

	_, err := Generate(t.Context(), &llm.Spy{}, input, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown post type")
}

func TestGenerate_ModelSelection(t *testing.T) {
	spy := &llm.Spy{Response: "Quiz night at The Fox & Hounds, Thursday 8pm."}

	_, err := Generate(t.Context(), spy, quizInput(), Options{})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", spy.Requests[0].Model)

	ultra := quizInput()
	ultra.CopyMode = types.CopyUltra
	_, err = Generate(t.Context(), spy, ultra, Options{})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", spy.Requests[1].Model)

	override := quizInput()
	_, err = Generate(t.Context(), spy, override, Options{Model: "gemini-2.5-flash-lite"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash-lite", spy.Requests[2].Model)
}

func TestGenerate_ProgressEvents(t *testing.T) {
	spy := &llm.Spy{Response: "Quiz night at The Fox & Hounds, Thursday 8pm."}

	var stages []string
	_, err := Generate(t.Context(), spy, quizInput(), Options{
		OnProgress: func(event ProgressEvent) { stages = append(stages, event.Stage) },
	})
	require.NoError(t, err)
	assert.Equal(t, []string{StagePreflight, StageCompose, StageGenerate, StageNormalize, StageLint}, stages)
}

func TestResult_Sentinel(t *testing.T) {
	accepted := Result{Accepted: true, Content: "Quiz night Thursday 8pm."}
	assert.Equal(t, "Quiz night Thursday 8pm.", accepted.Sentinel())

	rejected := Result{Reason: "Word limit exceeded (30/25)"}
	assert.Equal(t, "NEEDS-REVISION: Word limit exceeded (30/25)", rejected.Sentinel())
}
