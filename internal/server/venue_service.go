// Package server provides the HTTP REST API for the content engine.
package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tapline/tapline/internal/config"
	"github.com/tapline/tapline/internal/db"
	"github.com/tapline/tapline/internal/types"
)

// VenueStore is the subset of database operations the venue service needs.
type VenueStore interface {
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	CreateVenue(ctx context.Context, name, email, brandVoice, microIdentity string) (uuid.UUID, error)
	UpdateVenuePassword(ctx context.Context, venueID uuid.UUID, passwordHash string) error
	GetVenue(ctx context.Context, venueID uuid.UUID) (*db.Venue, error)
	GetVenueByEmail(ctx context.Context, email string) (*db.Venue, error)
}

// VenueService provides business logic for venue account operations
type VenueService struct {
	store          VenueStore
	passwordConfig *config.PasswordConfig
}

// NewVenueService creates a new VenueService with the given dependencies
func NewVenueService(store VenueStore, passwordConfig *config.PasswordConfig) *VenueService {
	return &VenueService{
		store:          store,
		passwordConfig: passwordConfig,
	}
}

// convertDBVenue converts db.Venue to types.Venue, excluding the password hash
func convertDBVenue(dbVenue *db.Venue) *types.Venue {
	if dbVenue == nil {
		return nil
	}
	return &types.Venue{
		ID:            dbVenue.ID,
		Name:          dbVenue.Name,
		Email:         dbVenue.Email,
		BrandVoice:    dbVenue.BrandVoice,
		MicroIdentity: dbVenue.MicroIdentity,
		PasswordSet:   dbVenue.PasswordSet,
		CreatedAt:     dbVenue.CreatedAt,
		UpdatedAt:     dbVenue.UpdatedAt,
	}
}

// Register creates a new venue account with password authentication
func (s *VenueService) Register(ctx context.Context, req *types.RegisterVenueRequest) (*types.Venue, error) {
	exists, err := s.store.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	venueID, err := s.store.CreateVenue(ctx, req.Name, req.Email, req.BrandVoice, req.MicroIdentity)
	if err != nil {
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}

	if err := s.store.UpdateVenuePassword(ctx, venueID, passwordHash); err != nil {
		return nil, fmt.Errorf("failed to set password: %w", err)
	}

	dbVenue, err := s.store.GetVenue(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created venue: %w", err)
	}
	if dbVenue == nil {
		return nil, fmt.Errorf("created venue not found: %s", venueID)
	}

	return convertDBVenue(dbVenue), nil
}

// Login authenticates a venue and returns its profile
func (s *VenueService) Login(ctx context.Context, req *types.LoginRequest) (*types.Venue, error) {
	dbVenue, err := s.store.GetVenueByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get venue by email: %w", err)
	}

	// Always return the generic error whether the account is missing or the
	// password is wrong.
	if dbVenue == nil {
		return nil, &ErrInvalidCredentials{}
	}

	if !s.passwordConfig.VerifyPassword(req.Password, dbVenue.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	if !dbVenue.PasswordSet {
		return nil, &ErrInvalidCredentials{}
	}

	return convertDBVenue(dbVenue), nil
}

// Get returns a venue profile by ID
func (s *VenueService) Get(ctx context.Context, venueID uuid.UUID) (*types.Venue, error) {
	dbVenue, err := s.store.GetVenue(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	if dbVenue == nil {
		return nil, &ErrVenueNotFound{VenueID: venueID}
	}
	return convertDBVenue(dbVenue), nil
}
