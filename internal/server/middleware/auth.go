// Package middleware provides HTTP middleware for authentication and authorization.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// venueIDKey is the context key for storing the authenticated venue ID.
const venueIDKey ContextKey = "venueID"

// TokenValidator is an interface for validating JWT tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (VenueIDGetter, error)
}

// VenueIDGetter is an interface for extracting venue ID from token claims.
type VenueIDGetter interface {
	GetVenueID() uuid.UUID
}

// AuthMiddleware creates middleware that validates JWT tokens and adds venue ID to request context.
func AuthMiddleware(jwtService TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Handle case-insensitive "Bearer" prefix
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), venueIDKey, claims.GetVenueID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetVenueID extracts the authenticated venue ID from the request context.
func GetVenueID(r *http.Request) (uuid.UUID, error) {
	venueID, ok := r.Context().Value(venueIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("venue ID not found in request context")
	}
	return venueID, nil
}

// VenueIDKey returns the context key for venue ID (for testing purposes).
func VenueIDKey() ContextKey {
	return venueIDKey
}
