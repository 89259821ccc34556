// Package google provides OAuth2 authentication and credential management
// for the Google APIs this application talks to.
//
// Two credential paths exist. User OAuth tokens authorize Gmail draft
// creation on behalf of the signed-in user and are cached on disk per
// account for CLI usage. A service account key, supplied as a JSON blob in
// the environment, authorizes the backend's read-only sheet loads so users
// only need to share their sheet with the service account's address.
//
// The TokenProvider interface allows different token sources to be plugged
// in, keeping the draft pipeline independent of where tokens come from.
package google
