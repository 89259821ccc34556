package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/comerian/gmaildrafter/internal/auth"
	"github.com/comerian/gmaildrafter/internal/drafter"
	"github.com/comerian/gmaildrafter/internal/instrumentation"
	"github.com/comerian/gmaildrafter/internal/logging"
)

// clientSession bundles the per-client state with its last access time for
// expiry.
type clientSession struct {
	handle     *ClientHandle
	lastAccess time.Time
}

// ClientHandle is the per-client state the handlers work with: one session
// manager holding the client's Google token and one batch runner bound to
// it.
type ClientHandle struct {
	Sessions *auth.Manager
	Runner   *drafter.Runner
}

// SessionRegistry tracks one ClientHandle per access token. Each distinct
// signed-in user gets their own runner, allowing several users to share a
// single server instance. Tokens are keyed by hash so raw token material
// never sits in a map key.
type SessionRegistry struct {
	sessions       map[string]*clientSession
	mu             sync.RWMutex
	cleanupTicker  *time.Ticker
	cleanupDone    chan bool
	sessionTimeout time.Duration
	provider       *instrumentation.Provider
	logger         *slog.Logger
}

// DefaultSessionTimeout is how long an idle client session is kept before
// it is evicted. Google access tokens expire after an hour anyway.
const DefaultSessionTimeout = time.Hour

// NewSessionRegistry creates a registry with the default timeout.
func NewSessionRegistry(provider *instrumentation.Provider) *SessionRegistry {
	return NewSessionRegistryWithTimeout(provider, DefaultSessionTimeout)
}

// NewSessionRegistryWithTimeout creates a registry with a custom idle
// timeout and starts the background cleanup.
func NewSessionRegistryWithTimeout(provider *instrumentation.Provider, timeout time.Duration) *SessionRegistry {
	r := &SessionRegistry{
		sessions:       make(map[string]*clientSession),
		cleanupTicker:  time.NewTicker(10 * time.Minute),
		cleanupDone:    make(chan bool),
		sessionTimeout: timeout,
		provider:       provider,
		logger:         slog.Default(),
	}

	go r.cleanupExpiredSessions()

	return r
}

// HandleForToken returns the ClientHandle for the given access token,
// creating and signing in a fresh one on first sight.
func (r *SessionRegistry) HandleForToken(accessToken, email string) *ClientHandle {
	key := hashToken(accessToken)

	r.mu.Lock()
	defer r.mu.Unlock()

	if cs, ok := r.sessions[key]; ok {
		cs.lastAccess = time.Now()
		return cs.handle
	}

	sessions := auth.NewManager()
	sessions.SignIn(auth.Session{
		Email:       email,
		AccessToken: accessToken,
		Provider:    "google",
	})

	handle := &ClientHandle{
		Sessions: sessions,
		Runner:   drafter.NewRunner(sessions),
	}
	r.sessions[key] = &clientSession{
		handle:     handle,
		lastAccess: time.Now(),
	}

	if r.provider != nil {
		r.provider.Metrics().IncrementActiveSessions(context.Background())
		r.provider.Metrics().RecordOAuthAuth(context.Background(), instrumentation.StatusSuccess)
	}
	r.logger.Debug("created client session",
		"token", logging.SanitizeToken(accessToken),
		"user_hash", logging.AnonymizeEmail(email))

	return handle
}

// RemoveToken evicts the session for the given access token, signing it
// out first so runner state observers see the change.
func (r *SessionRegistry) RemoveToken(accessToken string) {
	key := hashToken(accessToken)

	r.mu.Lock()
	cs, ok := r.sessions[key]
	if ok {
		delete(r.sessions, key)
	}
	r.mu.Unlock()

	if !ok {
		return
	}

	cs.handle.Sessions.SignOut()
	if r.provider != nil {
		r.provider.Metrics().DecrementActiveSessions(context.Background())
	}
}

// Count returns the number of active client sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// hashToken creates a stable registry key from the access token.
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// cleanupExpiredSessions periodically evicts idle sessions.
func (r *SessionRegistry) cleanupExpiredSessions() {
	for {
		select {
		case <-r.cleanupTicker.C:
			r.evictExpired()
		case <-r.cleanupDone:
			return
		}
	}
}

// evictExpired removes and signs out every session idle longer than the
// timeout.
func (r *SessionRegistry) evictExpired() {
	r.mu.Lock()
	now := time.Now()
	expired := make([]*clientSession, 0)
	for key, cs := range r.sessions {
		if now.Sub(cs.lastAccess) > r.sessionTimeout {
			delete(r.sessions, key)
			expired = append(expired, cs)
		}
	}
	r.mu.Unlock()

	for _, cs := range expired {
		cs.handle.Sessions.SignOut()
		if r.provider != nil {
			r.provider.Metrics().DecrementActiveSessions(context.Background())
		}
	}
	if len(expired) > 0 {
		r.logger.Info("cleaned up expired client sessions", "count", len(expired))
	}
}

// Stop stops the background cleanup goroutine.
func (r *SessionRegistry) Stop() {
	if r.cleanupTicker != nil {
		r.cleanupTicker.Stop()
	}
	if r.cleanupDone != nil {
		close(r.cleanupDone)
	}
}
