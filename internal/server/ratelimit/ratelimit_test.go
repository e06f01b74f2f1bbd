package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucket_ConsumesTokens(t *testing.T) {
	bucket := newTokenBucket(3, 1.0)

	assert.True(t, bucket.allow())
	assert.True(t, bucket.allow())
	assert.True(t, bucket.allow())
	assert.False(t, bucket.allow(), "fourth request should be denied")
}

func TestTokenBucket_Refills(t *testing.T) {
	// 100 tokens/sec so the refill is observable without a long sleep
	bucket := newTokenBucket(1, 100.0)

	assert.True(t, bucket.allow())
	assert.False(t, bucket.allow())

	time.Sleep(20 * time.Millisecond)
	assert.True(t, bucket.allow(), "bucket should refill over time")
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := limiter.Allow("1.2.3.4", "/generate", "POST")
		assert.True(t, allowed)
	}
}

func TestLimiter_EnforcesBurst(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/generate", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		},
	})
	defer limiter.Stop()

	allowed, info := limiter.Allow("1.2.3.4", "/generate", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 10, info.Limit)

	allowed, _ = limiter.Allow("1.2.3.4", "/generate", "POST")
	assert.True(t, allowed)

	allowed, info = limiter.Allow("1.2.3.4", "/generate", "POST")
	assert.False(t, allowed, "third request should exceed the burst of 2")
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_SeparateClients(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/generate", Method: "POST", Limit: 10, Window: time.Hour, Burst: 1},
		},
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("1.1.1.1", "/generate", "POST")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("1.1.1.1", "/generate", "POST")
	assert.False(t, allowed)

	allowed, _ = limiter.Allow("2.2.2.2", "/generate", "POST")
	assert.True(t, allowed, "a different client gets its own bucket")
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/generate", "POST")
		assert.True(t, allowed, "whitelisted client is never limited")
	}

	allowed, _ := limiter.Allow("10.0.0.2", "/generate", "POST")
	assert.False(t, allowed, "blacklisted client is always denied")
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{name: "generate", path: "/generate", method: "POST", wantLimit: 60},
		{name: "batch generate", path: "/generate/batch", method: "POST", wantLimit: 10},
		{name: "register", path: "/auth/register", method: "POST", wantLimit: 20},
		{name: "health is unlimited", path: "/health", method: "GET", wantLimit: 0},
		{name: "unmatched falls to default", path: "/runs", method: "GET", wantNil: true},
		{name: "wrong method falls to default", path: "/generate", method: "GET", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, config)
				return
			}
			if assert.NotNil(t, config) {
				assert.Equal(t, tt.wantLimit, config.Limit)
			}
		})
	}
}

func TestMatchEndpoint_WildcardSegments(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/runs", Method: "GET", Limit: 300, Window: time.Minute},
		{Path: "/runs/{id}", Method: "GET", Limit: 600, Window: time.Minute},
	}

	tests := []struct {
		name      string
		path      string
		wantLimit int
		wantNil   bool
	}{
		{name: "list route is exact", path: "/runs", wantLimit: 300},
		{name: "wildcard matches any id", path: "/runs/0b7a6f2e", wantLimit: 600},
		{name: "extra segments do not match", path: "/runs/0b7a6f2e/post", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := MatchEndpoint(tt.path, "GET", configs)
			if tt.wantNil {
				assert.Nil(t, config)
				return
			}
			if assert.NotNil(t, config) {
				assert.Equal(t, tt.wantLimit, config.Limit)
			}
		})
	}
}
