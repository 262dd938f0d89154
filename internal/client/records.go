package client

import (
	"context"
	"fmt"
	nethttp "net/http"
	"strings"

	"github.com/ensembleblock/airtable/internal/http"
	"github.com/ensembleblock/airtable/pkg/airtable"
)

// CreateRecord implements airtable.Client.CreateRecord.
func (c *Client) CreateRecord(ctx context.Context, opts *airtable.CreateRecordOptions) (*airtable.APIResponse, error) {
	if opts == nil {
		return nil, airtable.ErrOptionsRequired
	}

	err := opts.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating create record options: %w", err)
	}

	resp, err := c.httpClient.Post(ctx, c.tablePath(opts.Table), airtable.RecordRequest{Fields: opts.Fields})
	if err != nil {
		return nil, fmt.Errorf("creating record: %w", err)
	}

	return decodeResponse(resp)
}

// GetRecord implements airtable.Client.GetRecord.
func (c *Client) GetRecord(ctx context.Context, opts *airtable.GetRecordOptions) (*airtable.APIResponse, error) {
	if opts == nil {
		return nil, airtable.ErrOptionsRequired
	}

	err := opts.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating get record options: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, c.tablePath(opts.Table)+"/"+opts.RecordID)
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}

	return decodeResponse(resp)
}

// UpdateRecord implements airtable.Client.UpdateRecord. The HTTP verb
// defaults to PATCH; "PUT" (any casing) switches to a destructive update
// and changes nothing else.
func (c *Client) UpdateRecord(ctx context.Context, opts *airtable.UpdateRecordOptions) (*airtable.APIResponse, error) {
	if opts == nil {
		return nil, airtable.ErrOptionsRequired
	}

	err := opts.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating update record options: %w", err)
	}

	method := nethttp.MethodPatch
	if opts.Method != "" {
		method = strings.ToUpper(opts.Method)
	}

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method: method,
		Path:   c.tablePath(opts.Table) + "/" + opts.RecordID,
		Body:   airtable.RecordRequest{Fields: opts.Fields},
	})
	if err != nil {
		return nil, fmt.Errorf("updating record: %w", err)
	}

	return decodeResponse(resp)
}
