// Package server provides the HTTP REST API for the content engine.
package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tapline/tapline/internal/db"
	"github.com/tapline/tapline/internal/llm"
	"github.com/tapline/tapline/internal/pipeline"
	"github.com/tapline/tapline/internal/types"
)

// RunStore is the subset of database operations the generation service needs.
type RunStore interface {
	GetVenue(ctx context.Context, venueID uuid.UUID) (*db.Venue, error)
	CreateRun(ctx context.Context, venueID uuid.UUID, postType, copyMode, platform string) (uuid.UUID, error)
	CompleteRun(ctx context.Context, runID uuid.UUID, status, model, reason string) error
	SavePost(ctx context.Context, runID, venueID uuid.UUID, content, model string) (uuid.UUID, error)
	RecordUsage(ctx context.Context, venueID, runID uuid.UUID, model string, accepted bool) error
}

// GenerationService runs the generation pipeline on behalf of a venue and
// records the outcome.
type GenerationService struct {
	store  RunStore
	client llm.Client
}

// NewGenerationService creates a new GenerationService with the given dependencies.
func NewGenerationService(store RunStore, client llm.Client) *GenerationService {
	return &GenerationService{
		store:  store,
		client: client,
	}
}

// Generate runs one generation attempt for the venue. Rejected drafts come
// back as a response with Accepted false, not as an error. Usage is charged
// as soon as the model answers, regardless of the lint verdict.
func (s *GenerationService) Generate(ctx context.Context, venueID uuid.UUID, req *types.GenerateRequest) (*types.GenerateResponse, error) {
	venue, err := s.store.GetVenue(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	if venue == nil {
		return nil, &ErrVenueNotFound{VenueID: venueID}
	}

	policies := types.DefaultPolicies()
	if req.Policies != nil {
		policies = *req.Policies
	}

	input := &types.PostInput{
		Intent:   req.Intent,
		PostType: req.PostType,
		Platform: req.Platform,
		CopyMode: req.CopyMode,
		Brand: types.Brand{
			Voice:         venue.BrandVoice,
			MicroIdentity: venue.MicroIdentity,
		},
		Content:  req.Content,
		Policies: policies,
	}

	runID, err := s.store.CreateRun(ctx, venueID, string(req.PostType), string(req.CopyMode), req.Platform)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	result, genErr := pipeline.Generate(ctx, s.client, input, pipeline.Options{Model: req.Model})

	// Charge the ledger before the verdict is handled: a completed model
	// call costs the venue a credit even when the draft is then rejected.
	if result.ModelCalled && genErr == nil {
		if err := s.store.RecordUsage(ctx, venueID, runID, result.Model, result.Accepted); err != nil {
			return nil, fmt.Errorf("failed to record usage: %w", err)
		}
	}

	if genErr != nil {
		if err := s.store.CompleteRun(ctx, runID, db.RunStatusFailed, result.Model, genErr.Error()); err != nil {
			return nil, fmt.Errorf("failed to complete run: %w", err)
		}
		return nil, genErr
	}

	response := &types.GenerateResponse{
		RunID:        runID,
		Accepted:     result.Accepted,
		Content:      result.Content,
		Reason:       result.Reason,
		Model:        result.Model,
		UsageCounted: result.ModelCalled,
	}

	if result.Accepted {
		if _, err := s.store.SavePost(ctx, runID, venueID, result.Content, result.Model); err != nil {
			return nil, fmt.Errorf("failed to save post: %w", err)
		}
		if err := s.store.CompleteRun(ctx, runID, db.RunStatusAccepted, result.Model, ""); err != nil {
			return nil, fmt.Errorf("failed to complete run: %w", err)
		}
		return response, nil
	}

	if err := s.store.CompleteRun(ctx, runID, db.RunStatusRejected, result.Model, result.Reason); err != nil {
		return nil, fmt.Errorf("failed to complete run: %w", err)
	}
	return response, nil
}

// batchConcurrency bounds parallel model calls for one batch request.
const batchConcurrency = 4

// GenerateBatch runs each request in the batch and returns the outcomes in
// request order. One failed request fails the whole batch.
func (s *GenerationService) GenerateBatch(ctx context.Context, venueID uuid.UUID, reqs []types.GenerateRequest) ([]types.GenerateResponse, error) {
	results := make([]types.GenerateResponse, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for i := range reqs {
		g.Go(func() error {
			response, err := s.Generate(gctx, venueID, &reqs[i])
			if err != nil {
				return err
			}
			results[i] = *response
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
