package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"strings"

	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/comerian/gmaildrafter/internal/google"
	"github.com/comerian/gmaildrafter/internal/instrumentation"
	"github.com/comerian/gmaildrafter/internal/logging"
)

// Client wraps the Gmail Users service for draft creation.
type Client struct {
	svc     *gmail.UsersService
	account string
	logger  *slog.Logger
}

// NewClientForAccount creates a Gmail client authenticated with the cached
// OAuth token for the given account. Used by the CLI path.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:     svc.Users,
		account: account,
		logger:  logging.WithService(slog.Default(), "gmail"),
	}, nil
}

// NewClient creates a Gmail client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// NewClientForToken creates a Gmail client authenticated with a bearer
// access token supplied by the caller, typically forwarded from the signed-in
// user's session. Used by the API path.
func NewClientForToken(ctx context.Context, accessToken string) (*Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})

	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:    svc.Users,
		logger: logging.WithService(slog.Default(), "gmail"),
	}, nil
}

// Account returns the account name this client is associated with. Empty
// for token-based clients.
func (c *Client) Account() string {
	return c.account
}

// CreateDraft encodes the request as an RFC 2822 message and creates a
// draft in the authenticated user's mailbox. Returns the draft ID.
func (c *Client) CreateDraft(ctx context.Context, req *DraftRequest) (string, error) {
	if req.To == "" {
		return "", fmt.Errorf("recipient is required")
	}

	raw := base64.URLEncoding.EncodeToString([]byte(buildMessage(req)))

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, "gmail", "drafts_create")
	defer span.End()

	draft, err := c.svc.Drafts.Create("me", &gmail.Draft{
		Message: &gmail.Message{Raw: raw},
	}).Context(ctx).Do()
	if err != nil {
		instrumentation.SetSpanError(span, err)
		c.logger.Error("failed to create draft",
			logging.Operation("create_draft"),
			logging.Err(err))
		return "", &DraftCreationError{Err: err}
	}
	instrumentation.SetSpanSuccess(span)

	c.logger.Debug("draft created",
		logging.Operation("create_draft"),
		slog.String("draft_id", draft.Id))

	return draft.Id, nil
}

// buildMessage renders the request as an RFC 2822 plain-text message.
func buildMessage(req *DraftRequest) string {
	var b strings.Builder

	b.WriteString("To: ")
	b.WriteString(req.To)
	b.WriteString("\r\n")

	b.WriteString("Subject: ")
	b.WriteString(encodeRFC2047(req.Subject))
	b.WriteString("\r\n")

	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")

	b.WriteString(req.Body)

	return b.String()
}

// encodeRFC2047 encodes a header value per RFC 2047 when it contains
// non-ASCII characters, such as umlauts in subject lines.
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}
