package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ensembleblock/airtable/internal/constants"
	"github.com/ensembleblock/airtable/pkg/airtable"
)

// FindMany implements airtable.Client.FindMany. It issues one throttled
// POST per page, strictly in sequence, threading each response's offset
// into the next request, and returns the flattened field maps of every
// record in response order.
func (c *Client) FindMany(ctx context.Context, opts *airtable.FindManyOptions) ([]airtable.FieldSet, error) {
	if opts == nil {
		return nil, airtable.ErrOptionsRequired
	}

	err := opts.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating find options: %w", err)
	}

	payload := airtable.ListRecordsRequest{
		Fields:          opts.Fields,
		FilterByFormula: opts.FilterByFormula,
		MaxRecords:      opts.MaxRecords,
	}

	if opts.ModifiedSinceHours > 0 {
		payload.FilterByFormula = modifiedSinceFormula(opts.ModifiedSinceHours)
	}

	path := c.tablePath(opts.Table) + "/listRecords"

	var records []airtable.Record

	for page := 0; ; page++ {
		if page >= constants.MaxListPages {
			return nil, fmt.Errorf("%w (%d pages)", airtable.ErrTooManyIterations, constants.MaxListPages)
		}

		resp, err := c.httpClient.Post(ctx, path, payload)
		if err != nil {
			return nil, fmt.Errorf("listing records: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &airtable.APIError{Status: resp.StatusCode, StatusText: resp.StatusText}
		}

		var list airtable.ListRecordsResponse

		err = json.Unmarshal(resp.Body, &list)
		if err != nil {
			return nil, fmt.Errorf("parsing listRecords response: %w", err)
		}

		records = append(records, list.Records...)

		if list.Offset == "" {
			break
		}

		payload.Offset = list.Offset
	}

	results := make([]airtable.FieldSet, 0, len(records))
	for _, record := range records {
		results = append(results, flattenRecord(record, opts.IncludeAirtableID))
	}

	return results, nil
}

// FindFirst implements airtable.Client.FindFirst. It builds a
// {field}='value' formula from the single-pair filter and delegates to
// FindMany with maxRecords=1. Zero matches, or a server unexpectedly
// returning more than one record, both yield nil rather than an error.
func (c *Client) FindFirst(ctx context.Context, opts *airtable.FindFirstOptions) (airtable.FieldSet, error) {
	if opts == nil {
		return nil, airtable.ErrOptionsRequired
	}

	err := opts.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating find first options: %w", err)
	}

	// The value is interpolated without escaping: a value containing a
	// single quote produces a malformed formula. Kept as-is for parity
	// with the vendor contract.
	var formula string
	for key, value := range opts.Where {
		formula = fmt.Sprintf("{%s}='%v'", key, value)
	}

	records, err := c.FindMany(ctx, &airtable.FindManyOptions{
		Table:             opts.Table,
		Fields:            opts.Fields,
		FilterByFormula:   formula,
		MaxRecords:        1,
		IncludeAirtableID: opts.IncludeAirtableID,
	})
	if err != nil {
		return nil, err
	}

	if len(records) != 1 {
		return nil, nil
	}

	return records[0], nil
}

// flattenRecord maps a record to its plain field map, optionally tagged
// with the server-assigned ID. Field values win on a key collision.
func flattenRecord(record airtable.Record, includeID bool) airtable.FieldSet {
	fields := make(airtable.FieldSet, len(record.Fields)+1)

	if includeID {
		fields[airtable.AirtableIDField] = record.ID
	}

	for key, value := range record.Fields {
		fields[key] = value
	}

	return fields
}

// modifiedSinceFormula synthesizes the filter formula for records touched
// within the last N hours.
func modifiedSinceFormula(hours int) string {
	return fmt.Sprintf("{lastModifiedTime}>=DATETIME_FORMAT(DATEADD(NOW(),-%d,'hours'))", hours)
}
