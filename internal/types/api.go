package types

import (
	"time"

	"github.com/google/uuid"
)

// Venue is the API representation of a venue account. It never carries the
// password hash.
type Venue struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	BrandVoice    string    `json:"brand_voice,omitempty"`
	MicroIdentity string    `json:"micro_identity,omitempty"`
	PasswordSet   bool      `json:"password_set"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RegisterVenueRequest is the payload for POST /auth/register.
type RegisterVenueRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8,max=128"`
	BrandVoice    string `json:"brand_voice,omitempty" validate:"max=500"`
	MicroIdentity string `json:"micro_identity,omitempty" validate:"max=100"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by both register and login.
type LoginResponse struct {
	Venue *Venue `json:"venue"`
	Token string `json:"token"`
}

// GenerateRequest is the payload for POST /generate.
type GenerateRequest struct {
	Intent   string                 `json:"intent" validate:"max=500"`
	PostType PostType               `json:"post_type" validate:"required"`
	Platform string                 `json:"platform,omitempty" validate:"max=50"`
	CopyMode CopyMode               `json:"copy_mode" validate:"required"`
	Content  map[ContentSlot]string `json:"content" validate:"required"`
	Policies *Policies              `json:"policies,omitempty"`
	Model    string                 `json:"model,omitempty"`
}

// GenerateResponse reports the outcome of one generation run. UsageCounted
// is true whenever a model call was made, accepted or not.
type GenerateResponse struct {
	RunID        uuid.UUID `json:"run_id"`
	Accepted     bool      `json:"accepted"`
	Content      string    `json:"content,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	Model        string    `json:"model,omitempty"`
	UsageCounted bool      `json:"usage_counted"`
}

// BatchGenerateRequest is the payload for POST /generate/batch.
type BatchGenerateRequest struct {
	Requests []GenerateRequest `json:"requests" validate:"required,min=1,max=10,dive"`
}

// BatchGenerateResponse wraps the per-request outcomes in request order.
type BatchGenerateResponse struct {
	Results []GenerateResponse `json:"results"`
}
