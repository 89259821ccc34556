package sheets

import (
	"errors"
	"fmt"
)

// Sentinel errors for the sheet ingestion path. The messages are shown to
// the user as-is, so keep them actionable.
var (
	// ErrInvalidURL indicates the pasted URL does not contain a sheet ID.
	ErrInvalidURL = errors.New("invalid Google Sheet URL")

	// ErrMissingCredentials indicates no service account key is configured.
	ErrMissingCredentials = errors.New("Google service account key is not configured")

	// ErrEmptySheet indicates the worksheet contains no populated cells.
	ErrEmptySheet = errors.New("no data found in the sheet")

	// ErrInvalidHeader indicates the header row contains an empty cell.
	ErrInvalidHeader = errors.New("sheet headers cannot be empty; ensure your first row contains valid column names")
)

// UpstreamError wraps a transport or auth failure from the Sheets API with
// a display-ready message.
type UpstreamError struct {
	Err error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("failed to load Google Sheet data: %v", e.Err)
}

// Unwrap returns the underlying API error.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}
