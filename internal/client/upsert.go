package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ensembleblock/airtable/pkg/airtable"
)

// UpsertRecord implements airtable.Client.UpsertRecord.
//
// The call resolves to exactly one of three outcomes: no record matches
// the Where filter and one is created (with the Where pair persisted
// alongside Set, so the discriminating field survives); a record matches
// and every Set field is already current, in which case no write is
// issued; or a record matches with at least one real difference and a
// single PATCH carries the Set payload. A field the server omitted counts
// as current when the incoming value is itself empty, since writing it
// would not change the server's rendering.
//
// The lookup and the write are separate requests; a concurrent external
// writer can race between them.
func (c *Client) UpsertRecord(ctx context.Context, opts *airtable.UpsertRecordOptions) (*airtable.UpsertResult, error) {
	if opts == nil {
		return nil, airtable.ErrOptionsRequired
	}

	err := opts.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating upsert options: %w", err)
	}

	setKeys := make([]string, 0, len(opts.Set))
	for key := range opts.Set {
		setKeys = append(setKeys, key)
	}

	sort.Strings(setKeys)

	existing, err := c.FindFirst(ctx, &airtable.FindFirstOptions{
		Table:             opts.Table,
		Where:             opts.Where,
		Fields:            setKeys,
		IncludeAirtableID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("looking up record for upsert: %w", err)
	}

	if existing == nil {
		return c.upsertCreate(ctx, opts)
	}

	recordID, _ := existing[airtable.AirtableIDField].(string)

	err = checkServerRecordID(recordID)
	if err != nil {
		return nil, err
	}

	if !fieldsChanged(existing, opts.Set) {
		return &airtable.UpsertResult{AirtableID: recordID, Outcome: airtable.RecordUnchanged}, nil
	}

	resp, err := c.UpdateRecord(ctx, &airtable.UpdateRecordOptions{
		Table:    opts.Table,
		RecordID: recordID,
		Fields:   opts.Set,
	})
	if err != nil {
		return nil, err
	}

	updatedID, err := recordIDFromResponse(resp)
	if err != nil {
		return nil, err
	}

	return &airtable.UpsertResult{AirtableID: updatedID, Outcome: airtable.RecordUpdated}, nil
}

// upsertCreate handles the NOT_FOUND arm: the Set fields are merged over
// the Where pair so the discriminating field is persisted too.
func (c *Client) upsertCreate(ctx context.Context, opts *airtable.UpsertRecordOptions) (*airtable.UpsertResult, error) {
	fields := make(airtable.FieldSet, len(opts.Set)+1)

	for key, value := range opts.Where {
		fields[key] = value
	}

	for key, value := range opts.Set {
		fields[key] = value
	}

	resp, err := c.CreateRecord(ctx, &airtable.CreateRecordOptions{Table: opts.Table, Fields: fields})
	if err != nil {
		return nil, err
	}

	recordID, err := recordIDFromResponse(resp)
	if err != nil {
		return nil, err
	}

	return &airtable.UpsertResult{AirtableID: recordID, Outcome: airtable.RecordCreated}, nil
}

// fieldsChanged reports whether at least one incoming field differs from
// the fetched record. A field absent on the server side is unchanged when
// the incoming value is empty per the read-omission convention.
func fieldsChanged(existing airtable.FieldSet, set airtable.FieldSet) bool {
	for key, next := range set {
		prev, present := existing[key]

		switch {
		case present && valuesEqual(prev, next):
			// already current
		case !present && airtable.IsEmptyValue(next):
			// empty on both sides
		default:
			return true
		}
	}

	return false
}

// valuesEqual compares a fetched field value against a caller-supplied one
// through their JSON renderings, so an int on the caller side matches the
// float64 the decoder produced.
func valuesEqual(a, b any) bool {
	rawA, errA := json.Marshal(a)
	rawB, errB := json.Marshal(b)

	if errA != nil || errB != nil {
		return false
	}

	return bytes.Equal(rawA, rawB)
}

// recordIDFromResponse extracts and validates the record ID from a write
// response. A non-OK status or an ID failing the "rec" shape check means
// the vendor response is malformed, not the caller's input.
func recordIDFromResponse(resp *airtable.APIResponse) (string, error) {
	if !resp.OK {
		return "", &airtable.APIError{Status: resp.Status, StatusText: resp.StatusText}
	}

	data, _ := resp.Data.(map[string]any)
	recordID, _ := data["id"].(string)

	err := checkServerRecordID(recordID)
	if err != nil {
		return "", err
	}

	return recordID, nil
}

// checkServerRecordID applies the "rec" prefix and length rule to an ID
// the server handed back.
func checkServerRecordID(recordID string) error {
	err := airtable.CheckRecordID(recordID)
	if err != nil {
		return fmt.Errorf("%w: %q", airtable.ErrMalformedRecordID, recordID)
	}

	return nil
}
