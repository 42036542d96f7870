package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/formula-cleaner/internal/constants"
	"github.com/fivetwenty-io/formula-cleaner/internal/http"
	"github.com/fivetwenty-io/formula-cleaner/pkg/elements"
)

// FormulasClient implements elements.FormulasClient.
type FormulasClient struct {
	httpClient *http.Client
}

// NewFormulasClient creates a new formulas client.
func NewFormulasClient(httpClient *http.Client) *FormulasClient {
	return &FormulasClient{httpClient: httpClient}
}

// Get implements elements.FormulasClient.Get.
func (c *FormulasClient) Get(ctx context.Context, templateID string) (*elements.Formula, error) {
	path := constants.FormulasPath + "/" + url.PathEscape(templateID)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting formula: %w", err)
	}

	var formula elements.Formula

	err = json.Unmarshal(resp.Body, &formula)
	if err != nil {
		return nil, fmt.Errorf("parsing formula: %w", err)
	}

	return &formula, nil
}

// ListInstances implements elements.FormulasClient.ListInstances.
func (c *FormulasClient) ListInstances(ctx context.Context, templateID, pageToken string) (*elements.InstancePage, error) {
	path := constants.FormulasPath + "/" + url.PathEscape(templateID) + "/instances"

	var query url.Values
	if pageToken != "" {
		query = url.Values{constants.NextPageQueryParam: []string{pageToken}}
	}

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("listing formula instances: %w", err)
	}

	page := &elements.InstancePage{
		NextPageToken: resp.Headers.Get(constants.NextPageTokenHeader),
	}

	if len(resp.Body) == 0 {
		return page, nil
	}

	err = json.Unmarshal(resp.Body, &page.Instances)
	if err != nil {
		return nil, fmt.Errorf("parsing formula instances: %w", err)
	}

	return page, nil
}

// DeleteInstance implements elements.FormulasClient.DeleteInstance.
func (c *FormulasClient) DeleteInstance(ctx context.Context, templateID string, instanceID int64) error {
	path := constants.FormulasPath + "/" + url.PathEscape(templateID) + "/instances/" + strconv.FormatInt(instanceID, 10)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting formula instance: %w", err)
	}

	return nil
}
