package gmail

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// DraftRequest is a fully resolved draft: all template placeholders have
// been substituted before it is constructed. It is built per row, handed to
// CreateDraft, and discarded.
type DraftRequest struct {
	To      string
	Subject string
	Body    string
}

// DraftCreationError wraps a Gmail API failure. The message surfaces the
// upstream error text when the API provided one.
type DraftCreationError struct {
	Err error
}

// Error implements the error interface, preferring the Gmail API's own
// error message for direct display.
func (e *DraftCreationError) Error() string {
	var apiErr *googleapi.Error
	if errors.As(e.Err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fmt.Sprintf("failed to create email draft: %v", e.Err)
}

// Unwrap returns the underlying API error.
func (e *DraftCreationError) Unwrap() error {
	return e.Err
}
