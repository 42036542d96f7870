package client

import (
	"fmt"

	"github.com/fivetwenty-io/formula-cleaner/internal/auth"
	"github.com/fivetwenty-io/formula-cleaner/internal/constants"
	"github.com/fivetwenty-io/formula-cleaner/internal/http"
	"github.com/fivetwenty-io/formula-cleaner/pkg/elements"
)

// Config holds what is needed to build a Client.
type Config struct {
	APIEndpoint string
	UserSecret  string
	OrgSecret   string
	Logger      elements.Logger
	Debug       bool
	// HTTPOptions are applied after the defaults derived from the fields above.
	HTTPOptions []http.Option
}

// Client bundles the resource clients of the formulas API.
type Client struct {
	httpClient *http.Client
	formulas   *FormulasClient
}

// New creates a new formulas API client.
func New(config *Config) (*Client, error) {
	if config.APIEndpoint == "" {
		return nil, constants.ErrBaseURLRequired
	}

	authenticator, err := auth.NewSecretsAuthenticator(config.UserSecret, config.OrgSecret)
	if err != nil {
		return nil, fmt.Errorf("creating authenticator: %w", err)
	}

	opts := []http.Option{http.WithDebug(config.Debug)}
	if config.Logger != nil {
		opts = append(opts, http.WithLogger(config.Logger))
	}

	opts = append(opts, config.HTTPOptions...)

	httpClient := http.NewClient(config.APIEndpoint, authenticator, opts...)

	return &Client{
		httpClient: httpClient,
		formulas:   NewFormulasClient(httpClient),
	}, nil
}

// Formulas returns the formula templates client.
func (c *Client) Formulas() elements.FormulasClient {
	return c.formulas
}

// APIEndpoint returns the host URL the client talks to.
func (c *Client) APIEndpoint() string {
	return c.httpClient.BaseURL()
}
