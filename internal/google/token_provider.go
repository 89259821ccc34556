package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// TokenProvider abstracts where OAuth tokens come from, so the draft
// pipeline does not care whether a token was cached on disk by the CLI or
// forwarded by a signed-in API client.
type TokenProvider interface {
	GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error)
	HasTokenForAccount(account string) bool
}

// FileTokenProvider reads tokens from the per-account on-disk cache written
// by the auth command.
type FileTokenProvider struct{}

var _ TokenProvider = (*FileTokenProvider)(nil)

// NewFileTokenProvider creates a provider backed by the on-disk cache.
func NewFileTokenProvider() *FileTokenProvider {
	return &FileTokenProvider{}
}

// GetTokenForAccount loads and refreshes the cached token for account.
func (p *FileTokenProvider) GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	token, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("cached token for account %q is unusable: %w", account, err)
	}
	return token, nil
}

// HasTokenForAccount reports whether a cached token file exists for account.
func (p *FileTokenProvider) HasTokenForAccount(account string) bool {
	return HasTokenForAccount(account)
}
