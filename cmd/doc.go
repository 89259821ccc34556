// Package cmd implements the command-line interface for gmaildrafter.
//
// This package provides the following commands:
//   - serve: Start the HTTP API server
//   - auth: Obtain and cache a Google OAuth token for CLI use
//   - drafts: Create Gmail drafts from a Google Sheet without the server
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
