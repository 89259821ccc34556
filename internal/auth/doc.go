// Package auth holds the signed-in user's session and notifies observers
// when it changes.
//
// A Session is an in-memory value owned by the Manager; it is never
// persisted. Components that need credentials ask the Manager for the
// current session before each privileged operation instead of capturing
// ambient global state, and can subscribe to be told when the user signs
// in or out.
package auth
