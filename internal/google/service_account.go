package google

import (
	"errors"
	"os"

	"google.golang.org/api/option"
)

// ServiceAccountKeyEnv is the environment variable holding the service
// account credential blob (JSON) used for backend sheet reads.
const ServiceAccountKeyEnv = "GOOGLE_SERVICE_ACCOUNT_KEY"

// ErrNoServiceAccount indicates the service account key is not configured.
var ErrNoServiceAccount = errors.New("Google service account key is not configured")

// HasServiceAccount reports whether a service account key is configured.
func HasServiceAccount() bool {
	return os.Getenv(ServiceAccountKeyEnv) != ""
}

// ServiceAccountOptions returns client options that authenticate with the
// configured service account key, scoped to read-only spreadsheet access.
func ServiceAccountOptions() ([]option.ClientOption, error) {
	key := os.Getenv(ServiceAccountKeyEnv)
	if key == "" {
		return nil, ErrNoServiceAccount
	}

	return []option.ClientOption{
		option.WithCredentialsJSON([]byte(key)),
		option.WithScopes(ServiceAccountScopes...),
	}, nil
}
