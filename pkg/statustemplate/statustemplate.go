// Package statustemplate provides the starter responses offered when a
// status code is added to an endpoint. The mock engine also uses them for
// the codes it answers on its own (401, 400, 404, 500).
package statustemplate

import (
	"fmt"
	"slices"

	"github.com/ourohead/ourohead/pkg/definition"
)

// Template is the label, description and starter body for one status code.
type Template struct {
	Code        int                       `json:"code"`
	Label       string                    `json:"label"`
	Description string                    `json:"description"`
	Response    definition.ResponseSchema `json:"response"`
}

// HiddenStatusCodes are handled globally and not offered for endpoints.
var HiddenStatusCodes = []int{404, 500, 502, 503}

func field(name, typ string) definition.Field {
	return definition.Field{Name: name, Type: typ}
}

func fieldWithDefault(name, typ, def string) definition.Field {
	return definition.Field{Name: name, Type: typ, DefaultValue: &def}
}

func object(fields ...definition.Field) definition.ResponseSchema {
	if fields == nil {
		fields = []definition.Field{}
	}
	return definition.ResponseSchema{Type: definition.FieldObject, Fields: fields}
}

var templates = map[int]Template{
	200: {
		Label:       "200 - OK",
		Description: "Standard success response",
		Response:    object(),
	},
	201: {
		Label:       "201 - Created",
		Description: "Resource created successfully",
		Response:    object(field("id", "string"), field("createdAt", "string")),
	},
	400: {
		Label:       "400 - Bad Request",
		Description: "Invalid request parameters",
		Response: object(
			fieldWithDefault("error", "string", "Bad Request"),
			fieldWithDefault("message", "string", "Invalid request parameters"),
		),
	},
	401: {
		Label:       "401 - Unauthorized",
		Description: "Authentication required",
		Response: object(
			fieldWithDefault("error", "string", "Unauthorized"),
			fieldWithDefault("message", "string", "Authentication required"),
		),
	},
	403: {
		Label:       "403 - Forbidden",
		Description: "Insufficient permissions",
		Response: object(
			fieldWithDefault("error", "string", "Forbidden"),
			fieldWithDefault("message", "string", "Insufficient permissions"),
		),
	},
	404: {
		Label:       "404 - Not Found",
		Description: "Resource not found",
		Response:    object(field("error", "string"), field("message", "string"), field("resource", "string")),
	},
	500: {
		Label:       "500 - Internal Server Error",
		Description: "Server error occurred",
		Response:    object(field("error", "string"), field("message", "string"), field("timestamp", "string")),
	},
	502: {
		Label:       "502 - Bad Gateway",
		Description: "Invalid response from upstream",
		Response:    object(field("error", "string"), field("message", "string")),
	},
	503: {
		Label:       "503 - Service Unavailable",
		Description: "Service temporarily unavailable",
		Response:    object(field("error", "string"), field("message", "string"), field("retryAfter", "number")),
	},
}

// Get returns the template for code. Unknown codes get a custom template
// with an empty object body. The result never aliases package state.
func Get(code int) Template {
	t, ok := templates[code]
	if !ok {
		return Template{
			Code:        code,
			Label:       fmt.Sprintf("%d - Custom", code),
			Description: "Custom status code",
			Response:    object(),
		}
	}
	t.Code = code
	t.Response = *t.Response.Clone()
	return t
}

// Known reports whether code has a predefined template.
func Known(code int) bool {
	_, ok := templates[code]
	return ok
}

// IsHidden reports whether code is handled globally.
func IsHidden(code int) bool {
	return slices.Contains(HiddenStatusCodes, code)
}

// Codes returns every predefined code in ascending order.
func Codes() []int {
	codes := make([]int, 0, len(templates))
	for c := range templates {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	return codes
}

// Available returns the templates offered for endpoints, ascending by code.
func Available() []Template {
	var out []Template
	for _, c := range Codes() {
		if IsHidden(c) {
			continue
		}
		out = append(out, Get(c))
	}
	return out
}

// StatusResponse builds an endpoint response for code from its template.
func StatusResponse(code int) definition.StatusResponse {
	schema := Get(code).Response
	return definition.StatusResponse{StatusCode: code, Response: &schema}
}
