package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	handler := RateLimit(1, 3, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, "request %d within burst should pass", i+1)
	}
}

func TestRateLimit_RejectsBeyondBurst(t *testing.T) {
	handler := RateLimit(1, 2, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Contains(t, last.Body.String(), "RATE_LIMITED")
}

func TestRateLimit_SeparateLimiterPerIP(t *testing.T) {
	handler := RateLimit(1, 1, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.RemoteAddr = "10.0.0.3:1234"
	rr1 := httptest.NewRecorder()
	handler.ServeHTTP(rr1, first)
	assert.Equal(t, http.StatusOK, rr1.Code)

	// A different IP gets its own bucket.
	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.RemoteAddr = "10.0.0.4:1234"
	rr2 := httptest.NewRecorder()
	handler.ServeHTTP(rr2, second)
	assert.Equal(t, http.StatusOK, rr2.Code)
}

func TestVisitorStore_CleanupEvictsStale(t *testing.T) {
	s := &visitorStore{
		visitors: make(map[string]*visitor),
		rps:      1,
		burst:    1,
		ttl:      time.Minute,
		nowFunc:  time.Now,
	}

	s.getVisitor("10.0.0.5")
	assert.Equal(t, 1, s.len())

	// Move the clock past the TTL and clean up.
	s.nowFunc = func() time.Time { return time.Now().Add(2 * time.Minute) }
	s.cleanup()
	assert.Equal(t, 0, s.len())
}

func TestClientIP_XForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.RemoteAddr = "10.0.0.1:1234"

	assert.Equal(t, "203.0.113.9", clientIP(req))
}

func TestClientIP_RemoteAddrFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5678"

	assert.Equal(t, "192.0.2.7", clientIP(req))
}
