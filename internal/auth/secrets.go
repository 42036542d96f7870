package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/fivetwenty-io/formula-cleaner/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrUserSecretRequired = errors.New("user secret is required")
	ErrOrgSecretRequired  = errors.New("organization secret is required")
)

// SecretsAuthenticator authenticates requests with a user secret and an
// organization secret.
type SecretsAuthenticator struct {
	userSecret string
	orgSecret  string
}

// NewSecretsAuthenticator creates an authenticator for the given secret pair.
func NewSecretsAuthenticator(userSecret, orgSecret string) (*SecretsAuthenticator, error) {
	if userSecret == "" {
		return nil, ErrUserSecretRequired
	}

	if orgSecret == "" {
		return nil, ErrOrgSecretRequired
	}

	return &SecretsAuthenticator{
		userSecret: userSecret,
		orgSecret:  orgSecret,
	}, nil
}

// Authorization returns the Authorization header value.
func (a *SecretsAuthenticator) Authorization(ctx context.Context) (string, error) {
	return fmt.Sprintf("User %s, Organization %s", a.userSecret, a.orgSecret), nil
}

// String masks both secrets.
func (a *SecretsAuthenticator) String() string {
	return fmt.Sprintf("User %s, Organization %s", constants.MaskedSecret, constants.MaskedSecret)
}
