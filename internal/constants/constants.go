package constants

import "time"

// Request throttling.
const (
	// DefaultRequestInterval is the minimum spacing between outbound
	// requests from one client instance. Matches Airtable's documented
	// 5 requests/second per-base limit.
	DefaultRequestInterval = 200 * time.Millisecond
)

// Pagination limits.
const (
	// MaxListPages caps the listRecords pagination loop. It covers the
	// maximum records obtainable on any Airtable plan divided by the
	// typical page size; hitting it means the cursor sequence is
	// malformed or looping.
	MaxListPages = 500
)

// HTTP defaults.
const (
	// DefaultUserAgent identifies this client on the wire.
	DefaultUserAgent = "airtable-go-client/1.0"
)
