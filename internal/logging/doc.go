// Package logging provides structured logging utilities for the
// gmaildrafter application.
//
// This package centralizes logging patterns to ensure consistent,
// structured logging throughout the codebase using the standard library's
// slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (email anonymization)
//   - Consistent attribute naming across the codebase
//   - Logger adapter interface for flexibility
//
// # Security Considerations
//
// Recipient and user emails are hashed to prevent PII leakage while still
// allowing log correlation, and access tokens are never logged directly.
package logging
