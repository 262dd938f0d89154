// Package atclient wires configuration and transport into a working
// airtable.Client.
//
//	cli, err := atclient.NewWithAPIKey("key...", "app...")
//	if err != nil { ... }
//
// For transport knobs (custom base URL, request spacing, logging), build a
// full airtable.Config and pass it to New.
package atclient
