// Package cli provides the command-line interface for ourohead.
//
// Commands:
//   - serve: run the editor API and page together with the mock server
//   - list: show the endpoints with their index and method badge
//   - add: add an endpoint from flags or an interactive form
//   - delete: remove an endpoint by index
//   - preview: generate dummy data for an endpoint, optionally filtered by JSONPath
//   - templates: list the status code templates
//   - import: merge OpenAPI, cURL or definition files into the definition
//   - export: write the definition as a native document or OpenAPI 3
//   - validate: check a definition file
//   - requests: show recent mock server requests
//   - config: show the resolved configuration and its sources
//   - version: show version information
//
// Commands talk to a running editor through pkg/client, or with --file
// read and write a definition file directly.
//
// Usage:
//
//	ourohead serve --seed 42
//	ourohead add --path /users --status 200 --field id:uuid --field name:string
//	ourohead list
//	ourohead preview 0 --query '$.name'
//	ourohead import 'specs/**/*.yaml'
//	ourohead export --format openapi -o api.yaml
//	ourohead --file api.json validate
package cli
