package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapline/tapline/internal/config"
)

func testJWTService() *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret: "test-secret-key",
		Issuer: "tapline",
		TTL:    24 * time.Hour,
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := testJWTService()
	venueID := uuid.New()

	token, err := service.GenerateToken(venueID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, venueID, claims.VenueID)
	assert.Equal(t, venueID, claims.GetVenueID())
	assert.Equal(t, "tapline", claims.Issuer)
	assert.Equal(t, venueID.String(), claims.Subject)
}

func TestJWTService_EmptyToken(t *testing.T) {
	service := testJWTService()

	claims, err := service.ValidateToken("")
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_MalformedToken(t *testing.T) {
	service := testJWTService()

	claims, err := service.ValidateToken("not.a.jwt")
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_WrongSecret(t *testing.T) {
	service := testJWTService()
	other := NewJWTService(&config.JWTConfig{Secret: "different-secret", Issuer: "tapline", TTL: 24 * time.Hour})

	token, err := other.GenerateToken(uuid.New())
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_WrongIssuer(t *testing.T) {
	service := testJWTService()
	other := NewJWTService(&config.JWTConfig{Secret: "test-secret-key", Issuer: "someone-else", TTL: 24 * time.Hour})

	// Correct signature, wrong iss claim.
	token, err := other.GenerateToken(uuid.New())
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "issuer")
}

func TestJWTService_ExpiredToken(t *testing.T) {
	service := testJWTService()
	venueID := uuid.New()

	// Sign a token that expired an hour ago with the same secret and issuer.
	past := time.Now().Add(-2 * time.Hour)
	claims := &Claims{
		VenueID: venueID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "tapline",
			Subject:   venueID.String(),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(past),
			NotBefore: jwt.NewNumericDate(past),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	parsed, err := service.ValidateToken(tokenString)
	require.Error(t, err)
	assert.Nil(t, parsed)
	assert.Contains(t, err.Error(), "expired")
}

func TestJWTService_MissingVenueID(t *testing.T) {
	service := testJWTService()

	// Structurally valid token signed with the right key but no venue claim.
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "tapline",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	parsed, err := service.ValidateToken(tokenString)
	require.Error(t, err)
	assert.Nil(t, parsed)
	assert.Contains(t, err.Error(), "venue")
}
