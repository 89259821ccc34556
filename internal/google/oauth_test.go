package google

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAccountName(t *testing.T) {
	tests := []struct {
		name    string
		account string
		wantErr bool
	}{
		{"valid default", "default", false},
		{"valid work", "work", false},
		{"valid with hyphen", "work-email", false},
		{"valid with underscore", "personal_email", false},
		{"valid alphanumeric", "account123", false},
		{"empty", "", true},
		{"with spaces", "my account", true},
		{"with special chars", "account@work", true},
		{"with slash", "work/personal", true},
		{"with dot", "work.email", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAccountName(tt.account)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetTokenFilePath(t *testing.T) {
	tests := []struct {
		name    string
		account string
		want    string
	}{
		{"default account", "default", "google-default.token"},
		{"work account", "work", "google-work.token"},
		{"personal account", "personal", "google-personal.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := getTokenFilePath(tt.account)
			assert.Equal(t, tt.want, filepath.Base(got))
			assert.Contains(t, got, cacheDirName)
		})
	}
}

func TestHasTokenForAccountRejectsInvalidNames(t *testing.T) {
	assert.False(t, HasTokenForAccount("invalid account"))
	assert.False(t, HasTokenForAccount("../escape"))
	assert.False(t, HasTokenForAccount(""))
}

func TestOAuthConfigUsesEnvCredentials(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-id-from-env")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret-from-env")

	conf := OAuthConfig()
	assert.Equal(t, "client-id-from-env", conf.ClientID)
	assert.Equal(t, "client-secret-from-env", conf.ClientSecret)
	assert.Equal(t, DefaultOAuthScopes, conf.Scopes)
}

func TestGetAuthURLContainsScopes(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")

	url := GetAuthURL()
	assert.True(t, strings.HasPrefix(url, "https://accounts.google.com/o/oauth2/auth"))
	assert.Contains(t, url, "gmail.compose")
	assert.Contains(t, url, "spreadsheets.readonly")
}

func TestServiceAccountOptions(t *testing.T) {
	t.Setenv(ServiceAccountKeyEnv, "")
	_, err := ServiceAccountOptions()
	assert.ErrorIs(t, err, ErrNoServiceAccount)
	assert.False(t, HasServiceAccount())

	t.Setenv(ServiceAccountKeyEnv, `{"type":"service_account"}`)
	opts, err := ServiceAccountOptions()
	assert.NoError(t, err)
	assert.Len(t, opts, 2)
	assert.True(t, HasServiceAccount())
}
