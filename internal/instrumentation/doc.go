// Package instrumentation provides OpenTelemetry metrics and tracing for
// the gmaildrafter service, plus audit logging for draft batches.
//
// Metrics are exported through Prometheus (default), OTLP, or stdout for
// development. Tracing is disabled by default and can be pointed at an
// OTLP collector. Batch audit records capture who created how many drafts
// from which sheet; full email addresses only appear in audit output when
// PII logging is explicitly enabled.
package instrumentation
