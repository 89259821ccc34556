// Package gmail implements draft creation through the Gmail API.
//
// The Client wraps the Gmail Users service and exposes CreateDraft, which
// encodes a fully resolved (to, subject, body) triple as an RFC 2822
// message and submits it to the drafts resource. Drafts are never sent by
// this application; the user reviews and sends them from Gmail.
//
// Clients authenticate either with a cached OAuth token for a named account
// (CLI usage) or with a bearer access token supplied per request (API
// usage).
package gmail
