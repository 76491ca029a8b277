// Package definition holds the API definition edited in ourohead: endpoints,
// their request fields, and the canned responses per status code.
//
// The same types are persisted by pkg/store, previewed by the editor API and
// served by the mock engine.
package definition
