package server

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapline/tapline/internal/db"
	"github.com/tapline/tapline/internal/llm"
	"github.com/tapline/tapline/internal/types"
)

func seedVenue(t *testing.T, store *fakeStore) *db.Venue {
	t.Helper()
	id, err := store.CreateVenue(t.Context(), "The Fox & Hounds", "landlord@foxandhounds.co.uk", "Warm village pub", "")
	require.NoError(t, err)
	return store.venues[id]
}

func quizRequest() *types.GenerateRequest {
	return &types.GenerateRequest{
		Intent:   "Promote the weekly quiz",
		PostType: types.PostEvent,
		CopyMode: types.CopySingle,
		Content: map[types.ContentSlot]string{
			types.SlotWhat:  "quiz night",
			types.SlotWhen:  "Thursday 8pm",
			types.SlotWhere: "The Fox & Hounds",
		},
	}
}

func TestGenerationService_AcceptedRun(t *testing.T) {
	store := newFakeStore()
	venue := seedVenue(t, store)
	spy := &llm.Spy{Response: "Quiz night at The Fox & Hounds, Thursday 8pm. Bring a team."}
	service := NewGenerationService(store, spy)

	response, err := service.Generate(t.Context(), venue.ID, quizRequest())
	require.NoError(t, err)

	assert.True(t, response.Accepted)
	assert.True(t, response.UsageCounted)
	assert.NotEmpty(t, response.Content)

	run := store.runs[response.RunID]
	require.NotNil(t, run)
	assert.Equal(t, db.RunStatusAccepted, run.Status)
	assert.NotNil(t, run.CompletedAt)

	require.Len(t, store.posts, 1)
	assert.Equal(t, response.Content, store.posts[0].Content)

	require.Len(t, store.usage, 1)
	assert.True(t, store.usage[0].Accepted)
}

func TestGenerationService_RejectedRunStillCharged(t *testing.T) {
	store := newFakeStore()
	venue := seedVenue(t, store)
	spy := &llm.Spy{Response: "An amazing quiz night at The Fox & Hounds, Thursday 8pm."}
	service := NewGenerationService(store, spy)

	response, err := service.Generate(t.Context(), venue.ID, quizRequest())
	require.NoError(t, err)

	assert.False(t, response.Accepted)
	assert.Equal(t, `Banned word: "amazing"`, response.Reason)
	assert.True(t, response.UsageCounted, "rejected drafts still consume a credit")

	run := store.runs[response.RunID]
	require.NotNil(t, run)
	assert.Equal(t, db.RunStatusRejected, run.Status)
	assert.Equal(t, response.Reason, run.Reason)

	assert.Empty(t, store.posts, "rejected drafts are never stored as posts")
	require.Len(t, store.usage, 1)
	assert.False(t, store.usage[0].Accepted)
}

func TestGenerationService_PreflightRejectionIsFree(t *testing.T) {
	store := newFakeStore()
	venue := seedVenue(t, store)
	spy := &llm.Spy{Response: "should never be requested"}
	service := NewGenerationService(store, spy)

	req := quizRequest()
	delete(req.Content, types.SlotWhere)

	response, err := service.Generate(t.Context(), venue.ID, req)
	require.NoError(t, err)

	assert.False(t, response.Accepted)
	assert.False(t, response.UsageCounted)
	assert.Contains(t, response.Reason, "missing required slots")
	assert.Zero(t, spy.Calls())
	assert.Empty(t, store.usage, "no model call means no charge")
	assert.Equal(t, db.RunStatusRejected, store.runs[response.RunID].Status)
}

func TestGenerationService_UnknownVenue(t *testing.T) {
	store := newFakeStore()
	service := NewGenerationService(store, &llm.Spy{})

	_, err := service.Generate(t.Context(), uuid.New(), quizRequest())
	require.Error(t, err)
	var notFound *ErrVenueNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestGenerationService_BrandComesFromVenueRecord(t *testing.T) {
	store := newFakeStore()
	venue := seedVenue(t, store)
	spy := &llm.Spy{Response: "Quiz night at The Fox & Hounds, Thursday 8pm."}
	service := NewGenerationService(store, spy)

	_, err := service.Generate(t.Context(), venue.ID, quizRequest())
	require.NoError(t, err)

	require.Equal(t, 1, spy.Calls())
	assert.Contains(t, spy.Requests[0].Messages[1].Content, "Warm village pub")
}

func TestGenerationService_Batch(t *testing.T) {
	store := newFakeStore()
	venue := seedVenue(t, store)
	spy := &llm.Spy{Response: "Quiz night at The Fox & Hounds, Thursday 8pm."}
	service := NewGenerationService(store, spy)

	reqs := []types.GenerateRequest{*quizRequest(), *quizRequest(), *quizRequest()}
	results, err := service.GenerateBatch(t.Context(), venue.ID, reqs)
	require.NoError(t, err)

	require.Len(t, results, 3)
	for _, result := range results {
		assert.True(t, result.Accepted)
		assert.NotEqual(t, uuid.Nil, result.RunID)
	}
	assert.Len(t, store.posts, 3)
	assert.Len(t, store.usage, 3)
}
