package db

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunStatusConstants(t *testing.T) {
	statuses := []string{
		RunStatusRunning,
		RunStatusAccepted,
		RunStatusRejected,
		RunStatusFailed,
	}

	for _, status := range statuses {
		assert.NotEmpty(t, status, "status constant should not be empty")
	}
}

func TestRunType(t *testing.T) {
	run := Run{
		PostType: "event",
		CopyMode: "single",
		Status:   RunStatusRunning,
	}

	assert.Equal(t, "event", run.PostType)
	assert.Equal(t, "single", run.CopyMode)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.Nil(t, run.CompletedAt)
}

func TestVenueNeverSerializesPasswordHash(t *testing.T) {
	venue := Venue{Name: "The Fox & Hounds", PasswordHash: "secret"}

	data, err := json.Marshal(venue)
	assert.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "password_hash")
}
