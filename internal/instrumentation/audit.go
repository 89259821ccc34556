package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"github.com/comerian/gmaildrafter/internal/logging"
)

// BatchRun captures all information about a draft batch run for audit
// logging. One record is emitted per run, whether it succeeds or fails.
//
// # Privacy Considerations
//
// The UserEmail field contains PII. Full emails only appear in audit output
// when the logger is configured with IncludePII; otherwise an anonymized
// hash and the email domain are logged instead.
type BatchRun struct {
	// RunID is the unique identifier assigned to this batch.
	RunID string

	// User identity (from OAuth)
	UserEmail string

	// SheetID is the spreadsheet the rows came from, when known.
	SheetID string

	// Outcome
	Created int
	Skipped int

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// NewBatchRun creates a new BatchRun with timing started.
// Call Complete when the run finishes.
func NewBatchRun(runID string) *BatchRun {
	return &BatchRun{
		RunID:     runID,
		StartTime: time.Now(),
	}
}

// WithUser sets the user identity.
func (br *BatchRun) WithUser(email string) *BatchRun {
	br.UserEmail = email
	return br
}

// WithSheet sets the source spreadsheet ID.
func (br *BatchRun) WithSheet(sheetID string) *BatchRun {
	br.SheetID = sheetID
	return br
}

// WithSpanContext extracts trace context from the current span.
func (br *BatchRun) WithSpanContext(ctx context.Context) *BatchRun {
	br.TraceID = GetTraceID(ctx)
	br.SpanID = GetSpanID(ctx)
	return br
}

// Complete marks the run as finished, recording counts and any error.
func (br *BatchRun) Complete(created, skipped int, err error) *BatchRun {
	br.Duration = time.Since(br.StartTime)
	br.Created = created
	br.Skipped = skipped
	br.Success = err == nil
	if err != nil {
		br.Error = err.Error()
	}
	return br
}

// Status returns "success" or "error" based on the Success field.
func (br *BatchRun) Status() string {
	if br.Success {
		return StatusSuccess
	}
	return StatusError
}

// logAttrs returns slog attributes for the run. When includePII is false the
// user appears as an anonymized hash plus email domain.
func (br *BatchRun) logAttrs(includePII bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("run_id", br.RunID),
		slog.Int("created", br.Created),
		slog.Int("skipped", br.Skipped),
		slog.Duration("duration", br.Duration),
		slog.Bool("success", br.Success),
	}

	if br.UserEmail != "" {
		if includePII {
			attrs = append(attrs, slog.String("user", br.UserEmail))
		} else {
			attrs = append(attrs,
				slog.String("user_hash", logging.AnonymizeEmail(br.UserEmail)),
				slog.String("user_domain", logging.ExtractDomain(br.UserEmail)),
			)
		}
	}
	if br.SheetID != "" {
		attrs = append(attrs, slog.String("sheet_id", br.SheetID))
	}
	if br.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", br.TraceID))
	}
	if br.SpanID != "" && includePII {
		attrs = append(attrs, slog.String("span_id", br.SpanID))
	}
	if br.Error != "" {
		attrs = append(attrs, slog.String("error", br.Error))
	}

	return attrs
}

// AuditLogger provides structured audit logging for draft batch runs.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
	enabled    bool
}

// NewAuditLogger creates a new AuditLogger writing to the default slog
// logger.
func NewAuditLogger(config AuditLoggingConfig) *AuditLogger {
	return &AuditLogger{
		logger:     slog.Default(),
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// SetLogger replaces the destination logger. Useful for routing audit
// records to a dedicated stream.
func (al *AuditLogger) SetLogger(logger *slog.Logger) {
	if logger != nil {
		al.logger = logger
	}
}

// LogBatchRun emits the audit record for a completed batch run.
func (al *AuditLogger) LogBatchRun(br *BatchRun) {
	if al == nil || !al.enabled {
		return
	}

	attrs := br.logAttrs(al.includePII)
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if br.Success {
		al.logger.Info("batch_completed", args...)
	} else {
		al.logger.Warn("batch_failed", args...)
	}
}
