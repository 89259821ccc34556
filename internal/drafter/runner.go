package drafter

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/comerian/gmaildrafter/internal/auth"
	"github.com/comerian/gmaildrafter/internal/gmail"
	"github.com/comerian/gmaildrafter/internal/logging"
	"github.com/comerian/gmaildrafter/internal/sheets"
	"github.com/comerian/gmaildrafter/internal/template"
)

// State describes where the Runner is in the batch lifecycle.
type State int

// Batch lifecycle states.
const (
	StateIdle State = iota
	StateValidating
	StateRunning
	StateCompleted
	StateFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ValidationError reports a failed batch precondition. The message is shown
// to the user verbatim.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// Result accumulates the outcome of one batch run.
type Result struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// DraftCreator is the collaborator that submits one resolved draft to the
// mail provider. Implemented by gmail.Client.
type DraftCreator interface {
	CreateDraft(ctx context.Context, req *gmail.DraftRequest) (string, error)
}

// CreatorFactory builds a DraftCreator authorized by the given access
// token. A factory indirection lets the CLI and tests supply their own.
type CreatorFactory func(ctx context.Context, accessToken string) (DraftCreator, error)

// defaultCreatorFactory builds a Gmail client from the session's token.
func defaultCreatorFactory(ctx context.Context, accessToken string) (DraftCreator, error) {
	return gmail.NewClientForToken(ctx, accessToken)
}

// Runner owns the loaded sheet table and executes draft batches against it.
// All operations are driven by user actions on a single session; the mutex
// only guards against overlapping HTTP requests observing a half-updated
// runner.
type Runner struct {
	sessions *auth.Manager
	factory  CreatorFactory
	logger   *slog.Logger

	mu    sync.Mutex
	table *sheets.Table
	state State
}

// Option configures a Runner.
type Option func(*Runner)

// WithCreatorFactory overrides how DraftCreators are built.
func WithCreatorFactory(f CreatorFactory) Option {
	return func(r *Runner) { r.factory = f }
}

// WithLogger overrides the runner's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner creates an idle Runner bound to the session manager.
func NewRunner(sessions *auth.Manager, opts ...Option) *Runner {
	r := &Runner{
		sessions: sessions,
		factory:  defaultCreatorFactory,
		logger:   logging.WithService(slog.Default(), "drafter"),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadTable replaces the loaded table wholesale. Any previous table is
// discarded and the runner returns to idle.
func (r *Runner) LoadTable(t *sheets.Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table = t
	r.state = StateIdle
}

// Table returns the currently loaded table, or nil.
func (r *Runner) Table() *sheets.Table {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table
}

// State returns the runner's current lifecycle state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Run executes one batch over the loaded table using the combined
// subject/body template. On success the loaded table is cleared so a fresh
// load is required before the next batch.
func (r *Runner) Run(ctx context.Context, combinedTemplate string) (*Result, error) {
	r.setState(StateValidating)

	subject, body := template.Split(combinedTemplate)

	table, emailHeader, session, err := r.validate(subject, body)
	if err != nil {
		r.setState(StateFailed)
		return nil, err
	}

	creator, err := r.factory(ctx, session.AccessToken)
	if err != nil {
		r.setState(StateFailed)
		return nil, err
	}

	runID := uuid.NewString()
	logger := r.logger.With(
		slog.String("run_id", runID),
		logging.UserHash(session.Email),
	)
	logger.Info("batch started",
		logging.Operation("run_batch"),
		slog.Int("rows", len(table.Rows)))

	r.setState(StateRunning)

	result := &Result{}
	for i, row := range table.Rows {
		// Cooperative cancellation between rows; in-flight calls finish.
		if err := ctx.Err(); err != nil {
			r.setState(StateFailed)
			return nil, err
		}

		to := row[emailHeader]
		if to == "" {
			result.Skipped++
			logger.Debug("row skipped: empty email cell",
				logging.Operation("run_batch"),
				slog.Int("row", i+1))
			continue
		}

		req := &gmail.DraftRequest{
			To:      to,
			Subject: template.Render(subject, row),
			Body:    template.Render(body, row),
		}

		if _, err := creator.CreateDraft(ctx, req); err != nil {
			// One failed row abandons the remainder of the batch.
			r.setState(StateFailed)
			logger.Error("batch aborted",
				logging.Operation("run_batch"),
				slog.Int("row", i+1),
				slog.Int("created", result.Created),
				logging.Err(err))
			return nil, err
		}
		result.Created++
	}

	r.mu.Lock()
	r.table = nil
	r.state = StateCompleted
	r.mu.Unlock()

	logger.Info("batch completed",
		logging.Operation("run_batch"),
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped))

	return result, nil
}

// validate checks every batch precondition before any network call. It
// returns the table, resolved email header and live session on success.
func (r *Runner) validate(subject, body string) (*sheets.Table, string, *auth.Session, error) {
	if subject == "" {
		return nil, "", nil, &ValidationError{Message: "Please enter an email subject"}
	}
	if body == "" {
		return nil, "", nil, &ValidationError{Message: "Please enter an email template"}
	}

	r.mu.Lock()
	table := r.table
	r.mu.Unlock()

	if table.Empty() {
		return nil, "", nil, &ValidationError{Message: "Please load a Google Sheet first"}
	}

	emailHeader, ok := table.EmailHeader()
	if !ok {
		return nil, "", nil, &ValidationError{Message: `No email column found in your sheet. Add a column whose name contains "email".`}
	}

	session, err := r.sessions.Require()
	if err != nil {
		return nil, "", nil, err
	}

	return table, emailHeader, session, nil
}

func (r *Runner) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}
