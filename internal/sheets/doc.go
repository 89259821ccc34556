// Package sheets implements the sheet ingestion path: resolving a Google
// Sheets document ID from a pasted URL, fetching the first worksheet's cell
// values through the Sheets v4 API, and normalizing the raw grid into a
// Table of header-keyed rows.
//
// The backend reads sheets with a service account, so users only have to
// share their sheet with the service account's email address. All errors
// carry messages suitable for direct display in the UI.
package sheets
