package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClaims implements VenueIDGetter for tests.
type stubClaims struct {
	venueID uuid.UUID
}

func (c *stubClaims) GetVenueID() uuid.UUID {
	return c.venueID
}

// stubValidator implements TokenValidator for tests.
type stubValidator struct {
	venueID uuid.UUID
	err     error
}

func (v *stubValidator) ValidateToken(tokenString string) (VenueIDGetter, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &stubClaims{venueID: v.venueID}, nil
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	venueID := uuid.New()
	mw := AuthMiddleware(&stubValidator{venueID: venueID})

	var gotID uuid.UUID
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetVenueID(r)
		require.NoError(t, err)
		gotID = id
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/runs", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, venueID, gotID)
}

func TestAuthMiddleware_CaseInsensitiveBearer(t *testing.T) {
	mw := AuthMiddleware(&stubValidator{venueID: uuid.New()})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/runs", nil)
	req.Header.Set("Authorization", "bearer some-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
		err    error
	}{
		{name: "missing header", header: ""},
		{name: "no bearer prefix", header: "some-token"},
		{name: "empty token", header: "Bearer "},
		{name: "too many parts", header: "Bearer a b"},
		{name: "invalid token", header: "Bearer bad-token", err: fmt.Errorf("invalid token")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := AuthMiddleware(&stubValidator{venueID: uuid.New(), err: tt.err})
			called := false
			handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest("GET", "/runs", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called, "handler should not run without valid auth")
		})
	}
}

func TestGetVenueID_MissingFromContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/runs", nil)

	id, err := GetVenueID(req)
	require.Error(t, err)
	assert.Equal(t, uuid.Nil, id)
}
