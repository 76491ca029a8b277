// Package matching scores incoming requests against endpoint routes and
// evaluates JSONPath queries over generated payloads.
//
// Path patterns support exact paths, {name} parameters and * wildcards.
// More specific patterns score higher so that /users/me wins over
// /users/{id}, which in turn wins over /users/*.
package matching
