package auth

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/comerian/gmaildrafter/internal/logging"
)

// ErrAuthRequired indicates that a privileged operation was attempted with
// no live session or with a session that carries no access token.
var ErrAuthRequired = errors.New("authentication required; please sign in again")

// Session describes the signed-in user. The access token must carry scopes
// for sheet reads and Gmail draft creation. Held in process memory only for
// the lifetime of the sign-in.
type Session struct {
	Email       string
	AccessToken string
	Provider    string
}

// Listener is notified with the new session on sign-in and nil on sign-out.
type Listener func(*Session)

// Manager owns the single currently-active session and fans out change
// notifications to subscribed listeners. Safe for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	current   *Session
	listeners map[int]Listener
	nextID    int
	logger    *slog.Logger
}

// NewManager creates a Manager with no active session.
func NewManager() *Manager {
	return &Manager{
		listeners: make(map[int]Listener),
		logger:    logging.WithService(slog.Default(), "auth"),
	}
}

// SignIn installs the session and notifies listeners. A second sign-in
// replaces the previous session.
func (m *Manager) SignIn(s Session) {
	m.mu.Lock()
	m.current = &s
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	m.logger.Info("user signed in",
		logging.UserHash(s.Email),
		slog.String("provider", s.Provider))

	for _, l := range listeners {
		l(&s)
	}
}

// SignOut clears the session and notifies listeners with nil.
func (m *Manager) SignOut() {
	m.mu.Lock()
	wasSignedIn := m.current != nil
	var email string
	if m.current != nil {
		email = m.current.Email
	}
	m.current = nil
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	if !wasSignedIn {
		return
	}

	m.logger.Info("user signed out", logging.UserHash(email))

	for _, l := range listeners {
		l(nil)
	}
}

// Current returns the active session, or nil when signed out. Callers must
// not mutate the returned value.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Require returns the active session or ErrAuthRequired when there is none
// or its access token is empty.
func (m *Manager) Require() (*Session, error) {
	s := m.Current()
	if s == nil || s.AccessToken == "" {
		return nil, ErrAuthRequired
	}
	return s, nil
}

// Subscribe registers a listener for session changes and returns a function
// that removes it. The listener is not invoked with the current state at
// subscription time; callers that need it should consult Current first.
func (m *Manager) Subscribe(l Listener) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = l
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// snapshotListeners copies the listener set so notifications run without
// holding the lock. Callers must hold mu.
func (m *Manager) snapshotListeners() []Listener {
	listeners := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	return listeners
}
