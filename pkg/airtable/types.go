package airtable

import (
	"time"
)

// DefaultBaseURL is the public Airtable REST endpoint.
const DefaultBaseURL = "https://api.airtable.com/v0"

// Identifier rules for vendor-namespaced IDs.
const (
	BaseIDPrefix   = "app"
	RecordIDPrefix = "rec"

	MinAPIKeyLength   = 10
	MinBaseIDLength   = 10
	MinRecordIDLength = 10
)

// AirtableIDField is the key under which a record's server-assigned ID is
// merged into its field map when ID inclusion is requested. Field values
// take precedence on a key collision, which cannot occur for legal Airtable
// field names.
const AirtableIDField = "_airtableId"

// FieldSet is the field map of a single record. Values are whatever the
// cell's JSON decodes to: strings, numbers, booleans, arrays, or nested
// objects.
type FieldSet map[string]any

// Record represents one row of an Airtable table as returned by the API.
type Record struct {
	ID          string    `json:"id"`
	CreatedTime time.Time `json:"createdTime"`
	Fields      FieldSet  `json:"fields"`
}

// RecordRequest is the body of record create and update calls.
type RecordRequest struct {
	Fields FieldSet `json:"fields"`
}

// ListRecordsRequest is the body of POST {base}/{table}/listRecords. All
// members are optional; a request with none set serializes as "{}".
type ListRecordsRequest struct {
	Fields          []string `json:"fields,omitempty"`
	FilterByFormula string   `json:"filterByFormula,omitempty"`
	MaxRecords      int      `json:"maxRecords,omitempty"`
	Offset          string   `json:"offset,omitempty"`
}

// ListRecordsResponse is one page of a listRecords result. A non-empty
// Offset is the cursor for the next page; its absence means the result set
// is exhausted.
type ListRecordsResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// APIResponse is the normalized envelope for single-record operations.
// Data holds the decoded JSON body regardless of HTTP status: failures are
// reported through OK/Status/StatusText rather than as a decode error.
type APIResponse struct {
	Data       any    `json:"data"`
	OK         bool   `json:"ok"`
	Status     int    `json:"status"`
	StatusText string `json:"statusText"`
}

// UpsertOutcome describes what an upsert call did.
type UpsertOutcome string

const (
	RecordCreated   UpsertOutcome = "RECORD_CREATED"
	RecordUnchanged UpsertOutcome = "RECORD_UNCHANGED"
	RecordUpdated   UpsertOutcome = "RECORD_UPDATED"
)

// UpsertResult is the result of an upsert call.
type UpsertResult struct {
	AirtableID string        `json:"_airtableId"`
	Outcome    UpsertOutcome `json:"upsertResult"`
}

// IsEmptyValue reports whether v is one of the values Airtable omits from
// read responses: null, empty string, false, or an empty array.
func IsEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	default:
		return false
	}
}
