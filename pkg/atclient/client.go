// Package atclient provides the main entry point for creating Airtable API clients.
package atclient

import (
	"fmt"
	"strings"

	"github.com/ensembleblock/airtable/internal/client"
	"github.com/ensembleblock/airtable/pkg/airtable"
)

// New creates a new Airtable API client from a full configuration. The
// base URL is normalized (trailing slash trimmed, "https://" added when no
// scheme is present) before construction; all other invariants are checked
// by Config.Validate.
func New(config *airtable.Config) (airtable.Client, error) {
	if config == nil {
		return nil, airtable.ErrConfigRequired
	}

	if config.BaseURL != "" {
		baseURL := strings.TrimSuffix(config.BaseURL, "/")
		if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
			baseURL = "https://" + baseURL
		}

		config.BaseURL = baseURL
	}

	airtableClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return airtableClient, nil
}

// NewWithAPIKey creates a new client for a base using just the API key and
// base ID, against the public Airtable endpoint.
func NewWithAPIKey(apiKey, baseID string) (airtable.Client, error) {
	return New(&airtable.Config{
		APIKey: apiKey,
		BaseID: baseID,
	})
}
