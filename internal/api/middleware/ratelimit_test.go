package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_PerClient(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, 2)
	l.now = func() time.Time { return now }

	h := l.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/barbers/1/available-slots", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5002"))

	// другой клиент не затронут
	assert.Equal(t, http.StatusOK, call("10.0.0.2:5000"))

	// через секунду появляется новый токен
	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:5003"))
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.allow("10.0.0.1")
	now = now.Add(idleTTL + time.Minute)
	l.allow("10.0.0.2")

	assert.NotContains(t, l.clients, "10.0.0.1")
	assert.Contains(t, l.clients, "10.0.0.2")
}
