// Package portability converts API definitions to and from external formats.
//
// Import formats:
//   - native definition files (JSON or YAML)
//   - OpenAPI 3.x specifications
//   - cURL commands
//
// Export formats:
//   - native definition files (JSON or YAML)
//   - OpenAPI 3.0
//
// Basic import:
//
//	data, _ := os.ReadFile("openapi.yaml")
//	result, err := portability.Import(data, "openapi.yaml")
//	def := result.Definition
//
// Basic export:
//
//	out, err := portability.Export(def, &portability.ExportOptions{Format: portability.FormatOpenAPI, AsYAML: true})
package portability
