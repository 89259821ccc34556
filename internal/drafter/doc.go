// Package drafter runs draft creation batches: one Gmail draft per loaded
// sheet row, with the row's values substituted into the user's template.
//
// The Runner owns the currently loaded table and moves through a small
// state machine (Idle, Validating, Running, Completed, Failed) per batch.
// Rows are processed strictly in order with at most one draft-creation call
// in flight, which keeps provider rate limits and ordering predictable.
// Rows with an empty email cell are skipped and counted; any upstream
// failure aborts the batch immediately rather than continuing best-effort.
package drafter
