package airtable

import (
	"context"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Client is the public operation surface of the Airtable client.
//
// Every operation validates its arguments before any I/O, waits for the
// per-instance request throttle, and issues its sub-requests strictly in
// sequence. The read-then-write of UpsertRecord is not atomic: a concurrent
// external writer can race between the lookup and the create/update.
type Client interface {
	// CreateRecord issues POST {base}/{table} with the given fields and
	// returns the normalized response envelope.
	CreateRecord(ctx context.Context, opts *CreateRecordOptions) (*APIResponse, error)

	// GetRecord fetches a single record by ID.
	GetRecord(ctx context.Context, opts *GetRecordOptions) (*APIResponse, error)

	// UpdateRecord updates a record via PATCH (default) or PUT.
	UpdateRecord(ctx context.Context, opts *UpdateRecordOptions) (*APIResponse, error)

	// FindMany returns all matching records (or up to MaxRecords),
	// transparently following the server's pagination cursor.
	FindMany(ctx context.Context, opts *FindManyOptions) ([]FieldSet, error)

	// FindFirst returns the single record matching the one-pair Where
	// filter, or nil if zero or more than one record matched.
	FindFirst(ctx context.Context, opts *FindFirstOptions) (FieldSet, error)

	// UpsertRecord creates, updates, or leaves alone the record identified
	// by the one-pair Where filter, per the Set field diff.
	UpsertRecord(ctx context.Context, opts *UpsertRecordOptions) (*UpsertResult, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building an airtable.Client.
// It is immutable after construction.
type Config struct {
	// APIKey: Airtable authentication secret, at least 10 characters. Sent
	// as "Authorization: Bearer <APIKey>" on every request.
	APIKey string

	// BaseID: vendor-namespaced base identifier ("app..." prefix, at least
	// 10 characters).
	BaseID string

	// BaseURL: API endpoint. Defaults to DefaultBaseURL; a trailing slash
	// is trimmed during construction.
	BaseURL string

	// RequestInterval: minimum spacing between outbound requests from this
	// client instance. Zero means the 200ms default (Airtable's documented
	// 5 req/s per-base cap); a negative value disables the throttle, which
	// is only sensible against a mock server.
	RequestInterval time.Duration

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// HTTPClient: optional underlying *http.Client. Defaults to a pooled
	// client with no timeout; per-request deadlines come from the caller's
	// context.
	HTTPClient *http.Client

	// Debug enables request/response logging when a Logger is provided.
	Debug bool

	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
}

// Validate checks the construction invariants: key length, base ID prefix
// and length. It does not normalize; see atclient.New for that.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigRequired
	}

	if len(c.APIKey) < MinAPIKeyLength {
		return ErrAPIKeyTooShort
	}

	if len(c.BaseID) < MinBaseIDLength || !strings.HasPrefix(c.BaseID, BaseIDPrefix) {
		return ErrInvalidBaseID
	}

	return validation.ValidateStruct(c,
		validation.Field(&c.APIKey, validation.Required),
		validation.Field(&c.BaseID, validation.Required),
	)
}
