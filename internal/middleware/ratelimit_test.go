package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPerKeyLimiterBurst(t *testing.T) {
	l := NewPerKeyLimiter(1, 3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "call %d should pass", i)
	}
	assert.False(t, l.Allow("10.0.0.1"))

	// other callers have their own bucket
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestPerKeyLimiterExpiresIdleEntries(t *testing.T) {
	l := NewPerKeyLimiter(1, 1, time.Minute)
	now := time.Now()
	l.WithNowFunc(func() time.Time { return now })

	assert.True(t, l.Allow("10.0.0.1"))

	// touching another key after the ttl sweeps the idle entry
	now = now.Add(2 * time.Minute)
	l.Allow("10.0.0.2")

	l.mu.Lock()
	_, kept := l.entries["10.0.0.1"]
	l.mu.Unlock()
	assert.False(t, kept)
}

func TestThrottleMiddleware(t *testing.T) {
	l := NewPerKeyLimiter(1, 1, time.Minute)
	h := Throttle(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/requests", nil)
	req.RemoteAddr = "203.0.113.7:51234"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "too many requests")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.10:4242"
	assert.Equal(t, "192.0.2.10", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1")
	assert.Equal(t, "198.51.100.4", ClientIP(req))
}
