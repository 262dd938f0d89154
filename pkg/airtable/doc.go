// Package airtable provides types, interfaces, and validation for working
// with the Airtable REST API (v0).
//
// # Overview
//
// The airtable package defines the domain types (Record, FieldSet, the
// listRecords wire types) and the Client interface covering record CRUD,
// paginated listing, filtered lookup, and upsert. A concrete implementation
// is provided by the atclient package, which wires configuration, the HTTP
// transport, and request throttling. Most consumers should import atclient
// to construct a client and then work against the Client interface exposed
// here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/ensembleblock/airtable/pkg/airtable"
//	  "github.com/ensembleblock/airtable/pkg/atclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := atclient.New(&airtable.Config{
//	    APIKey: "key...",
//	    BaseID: "app...",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  records, err := cli.FindMany(ctx, &airtable.FindManyOptions{Table: "Contacts"})
//	  if err != nil { log.Fatal(err) }
//	  _ = records
//	}
//
// # Field omission
//
// Airtable omits "empty" field values (empty string, empty array, false,
// null) from read responses. Writes may include such values; reads will not
// return them. IsEmptyValue captures this convention and the upsert
// resolver relies on it to avoid spurious writes.
//
// # Rate limiting
//
// Airtable enforces 5 requests per second per base. Each client instance
// spaces its outbound requests at least Config.RequestInterval apart
// (default 200ms). The guarantee is per instance, not per process: two
// clients pointed at the same base are not coordinated.
//
// # Errors
//
// Caller mistakes surface as validation errors before any request is made.
// Non-success HTTP statuses during listing or upsert surface as *APIError;
// use IsAPIError to branch on them. Single-record operations instead report
// HTTP failures through the APIResponse envelope (OK, Status, StatusText)
// with the decoded error body in Data.
package airtable
