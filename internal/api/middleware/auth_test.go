package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUserID int64
	}{
		{"valid", "42", http.StatusOK, 42},
		{"missing", "", http.StatusUnauthorized, 0},
		{"not a number", "abc", http.StatusUnauthorized, 0},
		{"negative", "-1", http.StatusUnauthorized, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID int64
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = GetUserID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/bookings/1", nil)
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()

			Auth(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUserID, gotUserID)
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := GetUserID(req.Context())
	assert.False(t, ok)
}
