package google

// DefaultOAuthScopes are the Google OAuth scopes requested for user
// sign-in. They are intentionally minimal: composing drafts and reading
// spreadsheets is everything this application does.
var DefaultOAuthScopes = []string{
	// OpenID Connect scopes (required for user info)
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	// Gmail draft creation (no send permission)
	"https://www.googleapis.com/auth/gmail.compose",

	// Read-only spreadsheet access
	"https://www.googleapis.com/auth/spreadsheets.readonly",
}

// ServiceAccountScopes are the scopes requested for the backend's
// service-account credential. Sheet reads only.
var ServiceAccountScopes = []string{
	"https://www.googleapis.com/auth/spreadsheets.readonly",
}
