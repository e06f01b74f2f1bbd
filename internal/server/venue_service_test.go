package server

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapline/tapline/internal/config"
	"github.com/tapline/tapline/internal/db"
	"github.com/tapline/tapline/internal/types"
)

// fakeStore is an in-memory implementation of VenueStore and RunStore.
// Guarded by a mutex so batch tests can hit it concurrently.
type fakeStore struct {
	mu     sync.Mutex
	venues map[uuid.UUID]*db.Venue
	runs   map[uuid.UUID]*db.Run
	posts  []db.Post
	usage  []db.UsageEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		venues: make(map[uuid.UUID]*db.Venue),
		runs:   make(map[uuid.UUID]*db.Run),
	}
}

func (f *fakeStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, v := range f.venues {
		if v.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateVenue(_ context.Context, name, email, brandVoice, microIdentity string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.New()
	now := time.Now()
	f.venues[id] = &db.Venue{
		ID:            id,
		Name:          name,
		Email:         email,
		BrandVoice:    brandVoice,
		MicroIdentity: microIdentity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return id, nil
}

func (f *fakeStore) UpdateVenuePassword(_ context.Context, venueID uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	venue, ok := f.venues[venueID]
	if !ok {
		return &ErrVenueNotFound{VenueID: venueID}
	}
	venue.PasswordHash = passwordHash
	venue.PasswordSet = true
	return nil
}

func (f *fakeStore) GetVenue(_ context.Context, venueID uuid.UUID) (*db.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.venues[venueID], nil
}

func (f *fakeStore) GetVenueByEmail(_ context.Context, email string) (*db.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, v := range f.venues {
		if v.Email == email {
			return v, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateRun(_ context.Context, venueID uuid.UUID, postType, copyMode, platform string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.New()
	f.runs[id] = &db.Run{
		ID:        id,
		VenueID:   venueID,
		PostType:  postType,
		CopyMode:  copyMode,
		Platform:  platform,
		Status:    db.RunStatusRunning,
		CreatedAt: time.Now(),
	}
	return id, nil
}

func (f *fakeStore) CompleteRun(_ context.Context, runID uuid.UUID, status, model, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	run, ok := f.runs[runID]
	if !ok {
		return nil
	}
	now := time.Now()
	run.Status = status
	run.Model = model
	run.Reason = reason
	run.CompletedAt = &now
	return nil
}

func (f *fakeStore) SavePost(_ context.Context, runID, venueID uuid.UUID, content, model string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.New()
	f.posts = append(f.posts, db.Post{
		ID:        id,
		RunID:     runID,
		VenueID:   venueID,
		Content:   content,
		Model:     model,
		CreatedAt: time.Now(),
	})
	return id, nil
}

func (f *fakeStore) RecordUsage(_ context.Context, venueID, runID uuid.UUID, model string, accepted bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.usage = append(f.usage, db.UsageEntry{
		ID:        uuid.New(),
		VenueID:   venueID,
		RunID:     runID,
		Model:     model,
		Accepted:  accepted,
		CreatedAt: time.Now(),
	})
	return nil
}

func testPasswordConfig() *config.PasswordConfig {
	return &config.PasswordConfig{BcryptCost: 10}
}

func TestVenueService_RegisterAndLogin(t *testing.T) {
	store := newFakeStore()
	service := NewVenueService(store, testPasswordConfig())

	venue, err := service.Register(t.Context(), &types.RegisterVenueRequest{
		Name:       "The Fox & Hounds",
		Email:      "landlord@foxandhounds.co.uk",
		Password:   "pints-and-quizzes",
		BrandVoice: "Warm village pub",
	})
	require.NoError(t, err)
	assert.Equal(t, "The Fox & Hounds", venue.Name)
	assert.True(t, venue.PasswordSet)

	loggedIn, err := service.Login(t.Context(), &types.LoginRequest{
		Email:    "landlord@foxandhounds.co.uk",
		Password: "pints-and-quizzes",
	})
	require.NoError(t, err)
	assert.Equal(t, venue.ID, loggedIn.ID)
}

func TestVenueService_DuplicateEmail(t *testing.T) {
	store := newFakeStore()
	service := NewVenueService(store, testPasswordConfig())

	req := &types.RegisterVenueRequest{
		Name:     "The Fox & Hounds",
		Email:    "landlord@foxandhounds.co.uk",
		Password: "pints-and-quizzes",
	}
	_, err := service.Register(t.Context(), req)
	require.NoError(t, err)

	_, err = service.Register(t.Context(), req)
	require.Error(t, err)
	var dupErr *ErrEmailAlreadyExists
	assert.ErrorAs(t, err, &dupErr)
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
}

func TestVenueService_LoginGenericErrors(t *testing.T) {
	store := newFakeStore()
	service := NewVenueService(store, testPasswordConfig())

	_, err := service.Register(t.Context(), &types.RegisterVenueRequest{
		Name:     "The Fox & Hounds",
		Email:    "landlord@foxandhounds.co.uk",
		Password: "pints-and-quizzes",
	})
	require.NoError(t, err)

	// Unknown account and wrong password yield the identical error
	_, unknownErr := service.Login(t.Context(), &types.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-12345",
	})
	_, wrongErr := service.Login(t.Context(), &types.LoginRequest{
		Email:    "landlord@foxandhounds.co.uk",
		Password: "wrong-password",
	})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(wrongErr))
}

func TestVenueService_GetMissing(t *testing.T) {
	service := NewVenueService(newFakeStore(), testPasswordConfig())

	_, err := service.Get(t.Context(), uuid.New())
	require.Error(t, err)
	var notFound *ErrVenueNotFound
	assert.ErrorAs(t, err, &notFound)
}
