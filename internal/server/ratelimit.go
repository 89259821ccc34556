package server

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/comerian/gmaildrafter/internal/logging"
)

// RateLimiterConfig holds the rate limiting settings for the /api routes.
type RateLimiterConfig struct {
	// RequestsPerMinute is the sustained per-client request rate.
	RequestsPerMinute int

	// Burst is the per-client burst size.
	Burst int

	// CleanupInterval is how often idle client entries are evicted.
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig returns the default settings: 60 requests per
// minute with a burst of 20.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerMinute: 60,
		Burst:             20,
		CleanupInterval:   5 * time.Minute,
	}
}

// clientLimiter pairs a token bucket with its last access time for expiry.
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter applies a per-client token bucket to incoming requests.
// Clients are keyed by bearer token hash when present, falling back to the
// remote IP for unauthenticated requests.
type RateLimiter struct {
	config RateLimiterConfig
	logger logging.Logger

	mu       sync.Mutex
	limiters map[string]*clientLimiter

	stopCh chan struct{}
}

// NewRateLimiter creates a RateLimiter and starts its background cleanup.
func NewRateLimiter(config RateLimiterConfig, logger logging.Logger) *RateLimiter {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	rl := &RateLimiter{
		config:   config,
		logger:   logger,
		limiters: make(map[string]*clientLimiter),
		stopCh:   make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop stops the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// Middleware returns the rate limiting middleware for chi.
func (rl *RateLimiter) Middleware() func(next http.Handler) http.Handler {
	perSecond := rate.Limit(float64(rl.config.RequestsPerMinute) / 60.0)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			limiter := rl.getOrCreateLimiter(key, perSecond)

			if !limiter.Allow() {
				writeRateLimitResponse(w, perSecond)
				rl.logger.Warn("rate limit exceeded", "client", key[:8])
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientCount returns the number of tracked clients. For tests and metrics.
func (rl *RateLimiter) ClientCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// clientKey derives a stable identifier for the requester. Bearer tokens
// are hashed so the limiter map never holds raw credentials.
func clientKey(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		sum := sha256.Sum256([]byte(authHeader))
		return hex.EncodeToString(sum[:])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	sum := sha256.Sum256([]byte(host))
	return hex.EncodeToString(sum[:])
}

func (rl *RateLimiter) getOrCreateLimiter(key string, perSecond rate.Limit) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if cl, ok := rl.limiters[key]; ok {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	limiter := rate.NewLimiter(perSecond, rl.config.Burst)
	rl.limiters[key] = &clientLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// cleanupLoop periodically evicts entries idle longer than twice the
// cleanup interval.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2
	now := time.Now()

	rl.mu.Lock()
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.limiters, key)
		}
	}
	rl.mu.Unlock()
}

// writeRateLimitResponse writes a 429 with a Retry-After hint derived from
// the token refill rate.
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	writeError(w, http.StatusTooManyRequests, "too many requests; please try again later")
}
