package server

import (
	"context"
	"sync"

	"github.com/comerian/gmaildrafter/internal/config"
	"github.com/comerian/gmaildrafter/internal/google"
	"github.com/comerian/gmaildrafter/internal/instrumentation"
	"github.com/comerian/gmaildrafter/internal/sheets"
)

// ServerContext holds the shared dependencies for the HTTP API.
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.Config
	provider *instrumentation.Provider
	registry *SessionRegistry

	mu           sync.RWMutex
	sheetsClient *sheets.Client
	shutdown     bool
}

// NewServerContext creates a new server context. The Sheets client is built
// lazily on first use so the server starts even when the service account key
// is not configured; the load-sheet endpoint reports the missing key per
// request instead.
func NewServerContext(ctx context.Context, cfg *config.Config, provider *instrumentation.Provider) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		cfg:      cfg,
		provider: provider,
	}
	sc.registry = NewSessionRegistry(provider)

	return sc, nil
}

// Context returns the server's base context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the application configuration.
func (sc *ServerContext) Config() *config.Config {
	return sc.cfg
}

// Instrumentation returns the instrumentation provider.
func (sc *ServerContext) Instrumentation() *instrumentation.Provider {
	return sc.provider
}

// Sessions returns the per-client session registry.
func (sc *ServerContext) Sessions() *SessionRegistry {
	return sc.registry
}

// SheetsClient returns the Sheets client, creating and caching it on first
// use. Returns sheets.ErrMissingCredentials when no service account key is
// configured.
func (sc *ServerContext) SheetsClient() (*sheets.Client, error) {
	sc.mu.RLock()
	client := sc.sheetsClient
	sc.mu.RUnlock()
	if client != nil {
		return client, nil
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.sheetsClient != nil {
		return sc.sheetsClient, nil
	}

	if !google.HasServiceAccount() {
		return nil, sheets.ErrMissingCredentials
	}

	opts, err := google.ServiceAccountOptions()
	if err != nil {
		return nil, sheets.ErrMissingCredentials
	}

	client, err = sheets.NewClient(sc.ctx, opts...)
	if err != nil {
		return nil, &sheets.UpstreamError{Err: err}
	}

	sc.sheetsClient = client
	return client, nil
}

// SetSheetsClient replaces the cached Sheets client. Used by tests to
// inject a client backed by a fake transport.
func (sc *ServerContext) SetSheetsClient(client *sheets.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.sheetsClient = client
}

// IsShutdown returns whether the server has been shut down.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the base context and stops the session registry.
// Safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	if sc.shutdown {
		sc.mu.Unlock()
		return nil
	}
	sc.shutdown = true
	sc.mu.Unlock()

	sc.registry.Stop()
	sc.cancel()
	return nil
}
