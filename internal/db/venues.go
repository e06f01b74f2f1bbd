package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateVenue creates a new venue account and returns its ID
func (db *DB) CreateVenue(ctx context.Context, name, email, brandVoice, microIdentity string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO venues (name, email, brand_voice, micro_identity)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		name, email, brandVoice, microIdentity,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create venue: %w", err)
	}
	return id, nil
}

// GetVenue retrieves a venue by ID
func (db *DB) GetVenue(ctx context.Context, venueID uuid.UUID) (*Venue, error) {
	var venue Venue
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, COALESCE(brand_voice, ''), COALESCE(micro_identity, ''),
		        COALESCE(password_hash, ''), password_hash IS NOT NULL, created_at, updated_at
		 FROM venues WHERE id = $1`,
		venueID,
	).Scan(&venue.ID, &venue.Name, &venue.Email, &venue.BrandVoice, &venue.MicroIdentity,
		&venue.PasswordHash, &venue.PasswordSet, &venue.CreatedAt, &venue.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	return &venue, nil
}

// GetVenueByEmail retrieves a venue by email address
func (db *DB) GetVenueByEmail(ctx context.Context, email string) (*Venue, error) {
	var venue Venue
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, COALESCE(brand_voice, ''), COALESCE(micro_identity, ''),
		        COALESCE(password_hash, ''), password_hash IS NOT NULL, created_at, updated_at
		 FROM venues WHERE email = $1`,
		email,
	).Scan(&venue.ID, &venue.Name, &venue.Email, &venue.BrandVoice, &venue.MicroIdentity,
		&venue.PasswordHash, &venue.PasswordSet, &venue.CreatedAt, &venue.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get venue by email: %w", err)
	}
	return &venue, nil
}

// CheckEmailExists reports whether a venue is already registered with the email
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM venues WHERE email = $1)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// UpdateVenuePassword sets the password hash for a venue
func (db *DB) UpdateVenuePassword(ctx context.Context, venueID uuid.UUID, passwordHash string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE venues SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, venueID,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("venue not found: %s", venueID)
	}
	return nil
}

// UpdateVenueBrand updates the venue's voice and sign-off phrase
func (db *DB) UpdateVenueBrand(ctx context.Context, venueID uuid.UUID, brandVoice, microIdentity string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE venues SET brand_voice = $1, micro_identity = $2, updated_at = NOW() WHERE id = $3`,
		brandVoice, microIdentity, venueID,
	)
	if err != nil {
		return fmt.Errorf("failed to update venue: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("venue not found: %s", venueID)
	}
	return nil
}
