package db

import (
	"time"

	"github.com/google/uuid"
)

// Venue represents a hospitality venue account
type Venue struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	BrandVoice    string    `json:"brand_voice,omitempty"`
	MicroIdentity string    `json:"micro_identity,omitempty"`
	PasswordHash  string    `json:"-" db:"password_hash"` // Never serialize to JSON
	PasswordSet   bool      `json:"password_set" db:"password_set"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Run represents one generation attempt for a venue
type Run struct {
	ID          uuid.UUID  `json:"id"`
	VenueID     uuid.UUID  `json:"venue_id"`
	PostType    string     `json:"post_type"`
	CopyMode    string     `json:"copy_mode"`
	Platform    string     `json:"platform,omitempty"`
	Model       string     `json:"model,omitempty"`
	Status      string     `json:"status"`
	Reason      string     `json:"reason,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Run status constants
const (
	RunStatusRunning  = "running"
	RunStatusAccepted = "accepted"
	RunStatusRejected = "rejected"
	RunStatusFailed   = "failed"
)

// Post represents an accepted draft stored for publishing
type Post struct {
	ID        uuid.UUID `json:"id"`
	RunID     uuid.UUID `json:"run_id"`
	VenueID   uuid.UUID `json:"venue_id"`
	Content   string    `json:"content"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UsageEntry represents one row in the usage ledger. Every completed model
// call is charged, including calls whose draft was later rejected.
type UsageEntry struct {
	ID        uuid.UUID `json:"id"`
	VenueID   uuid.UUID `json:"venue_id"`
	RunID     uuid.UUID `json:"run_id"`
	Model     string    `json:"model"`
	Accepted  bool      `json:"accepted"`
	CreatedAt time.Time `json:"created_at"`
}
