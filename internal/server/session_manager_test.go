package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRegistry_HandleForToken(t *testing.T) {
	r := NewSessionRegistry(nil)
	defer r.Stop()

	handle := r.HandleForToken("token-a", "ann@example.com")
	require.NotNil(t, handle)

	session, err := handle.Sessions.Require()
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", session.Email)
	assert.Equal(t, "token-a", session.AccessToken)
	assert.Equal(t, "google", session.Provider)

	// Same token returns the same handle
	again := r.HandleForToken("token-a", "ann@example.com")
	assert.Same(t, handle, again)
	assert.Equal(t, 1, r.Count())

	// A different token gets its own handle
	other := r.HandleForToken("token-b", "bo@example.com")
	assert.NotSame(t, handle, other)
	assert.Equal(t, 2, r.Count())
}

func TestSessionRegistry_RemoveToken(t *testing.T) {
	r := NewSessionRegistry(nil)
	defer r.Stop()

	handle := r.HandleForToken("token-a", "ann@example.com")
	require.Equal(t, 1, r.Count())

	r.RemoveToken("token-a")
	assert.Equal(t, 0, r.Count())

	// The evicted session is signed out
	assert.Nil(t, handle.Sessions.Current())

	// Removing an unknown token is a no-op
	r.RemoveToken("never-seen")
}

func TestSessionRegistry_ExpiryEviction(t *testing.T) {
	r := NewSessionRegistryWithTimeout(nil, time.Millisecond)
	defer r.Stop()

	handle := r.HandleForToken("token-a", "ann@example.com")
	require.Equal(t, 1, r.Count())

	time.Sleep(5 * time.Millisecond)

	// Drive the cleanup directly rather than waiting for the ticker
	r.evictExpired()

	assert.Equal(t, 0, r.Count())
	assert.Nil(t, handle.Sessions.Current())
}

func TestHashToken_Stable(t *testing.T) {
	a := hashToken("secret")
	b := hashToken("secret")
	c := hashToken("other")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotContains(t, a, "secret")
	assert.Len(t, a, 64)
}
