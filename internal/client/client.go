// Package client implements the airtable.Client interface against the
// live Airtable REST API.
package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ensembleblock/airtable/internal/http"
	"github.com/ensembleblock/airtable/pkg/airtable"
)

// Client implements the airtable.Client interface.
type Client struct {
	httpClient *http.Client
	baseID     string
}

// New creates a new Airtable API client. The configuration is validated
// before any network resources are set up; BaseURL falls back to the
// public endpoint and loses any trailing slash.
func New(config *airtable.Config) (*Client, error) {
	if config == nil {
		return nil, airtable.ErrConfigRequired
	}

	err := config.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = airtable.DefaultBaseURL
	}

	baseURL = strings.TrimSuffix(baseURL, "/")

	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, http.WithHTTPClient(config.HTTPClient))
	}

	if config.RequestInterval != 0 {
		httpOpts = append(httpOpts, http.WithRequestInterval(config.RequestInterval))
	}

	return &Client{
		httpClient: http.NewClient(baseURL, config.APIKey, httpOpts...),
		baseID:     config.BaseID,
	}, nil
}

// tablePath builds the request path for a table. The table name is joined
// verbatim, matching the vendor contract's {base}/{table} shape.
func (c *Client) tablePath(table string) string {
	return "/" + c.baseID + "/" + table
}

// decodeResponse normalizes a transport response into the public envelope.
// The body is decoded regardless of HTTP status; errors are represented by
// OK=false and the status fields rather than a decode failure.
func decodeResponse(resp *http.Response) (*airtable.APIResponse, error) {
	out := &airtable.APIResponse{
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status:     resp.StatusCode,
		StatusText: resp.StatusText,
	}

	if len(resp.Body) > 0 {
		err := json.Unmarshal(resp.Body, &out.Data)
		if err != nil {
			return nil, fmt.Errorf("parsing response body: %w", err)
		}
	}

	return out, nil
}
