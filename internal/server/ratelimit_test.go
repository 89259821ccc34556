package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestRateLimiter(perMinute, burst int) *RateLimiter {
	return NewRateLimiter(RateLimiterConfig{
		RequestsPerMinute: perMinute,
		Burst:             burst,
		CleanupInterval:   time.Minute,
	}, nil)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := newTestRateLimiter(60, 5)
	defer rl.Stop()

	handler := rl.Middleware()(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/load-sheet", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	rl := newTestRateLimiter(60, 2)
	defer rl.Stop()

	handler := rl.Middleware()(okHandler())

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/load-sheet", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
}

func TestRateLimiter_SeparateClients(t *testing.T) {
	rl := newTestRateLimiter(60, 1)
	defer rl.Stop()

	handler := rl.Middleware()(okHandler())

	first := httptest.NewRequest(http.MethodPost, "/api/drafts", nil)
	first.RemoteAddr = "10.0.0.3:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A different client gets its own bucket
	second := httptest.NewRequest(http.MethodPost, "/api/drafts", nil)
	second.RemoteAddr = "10.0.0.4:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 2, rl.ClientCount())
}

func TestRateLimiter_BearerTokenKeying(t *testing.T) {
	rl := newTestRateLimiter(60, 1)
	defer rl.Stop()

	handler := rl.Middleware()(okHandler())

	// Same IP, different tokens: independent buckets
	for _, token := range []string{"Bearer one", "Bearer two"} {
		req := httptest.NewRequest(http.MethodPost, "/api/drafts", nil)
		req.RemoteAddr = "10.0.0.5:1234"
		req.Header.Set("Authorization", token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 2, rl.ClientCount())
}
