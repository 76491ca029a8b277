// Package mockdata generates dummy payloads from response schemas.
//
// Values are derived from each field's type, its defaultValue (which always
// wins, coerced to the field type) and its optional fakerType. A Generator
// built WithSeed produces the same output for the same schema on every run,
// which is what previews and tests rely on.
package mockdata
