package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ourohead/ourohead/pkg/definition"
)

const requestSchemaURL = "request.json"

// RequestSchema converts declared request fields into a JSON Schema
// document (draft 2020-12).
func RequestSchema(req *definition.Request) map[string]any {
	obj := objectSchema(req.Fields)
	if req.Type == definition.FieldArray {
		return map[string]any{
			"$schema": "https://json-schema.org/draft/2020-12/schema",
			"type":    "array",
			"items":   obj,
		}
	}
	obj["$schema"] = "https://json-schema.org/draft/2020-12/schema"
	return obj
}

func objectSchema(fields []definition.Field) map[string]any {
	props := make(map[string]any, len(fields))
	required := []string{}
	for _, f := range fields {
		props[f.Name] = fieldSchema(f)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	s := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func fieldSchema(f definition.Field) map[string]any {
	var s map[string]any
	switch f.Type {
	case definition.FieldNumber:
		s = map[string]any{"type": "number"}
	case definition.FieldInteger:
		s = map[string]any{"type": "integer"}
	case definition.FieldBoolean:
		s = map[string]any{"type": "boolean"}
	case definition.FieldObject:
		s = objectSchema(f.Fields)
	case definition.FieldArray:
		s = map[string]any{"type": "array"}
		if len(f.Fields) > 0 {
			s["items"] = objectSchema(f.Fields)
		}
	case definition.FieldDate:
		s = map[string]any{"type": "string", "format": "date"}
	case definition.FieldDateTime:
		s = map[string]any{"type": "string", "format": "date-time"}
	case definition.FieldUUID:
		s = map[string]any{"type": "string", "format": "uuid"}
	case definition.FieldEmail:
		s = map[string]any{"type": "string", "format": "email"}
	default:
		s = map[string]any{"type": "string"}
	}
	if f.Description != "" {
		s["description"] = f.Description
	}
	return s
}

func compileRequestSchema(req *definition.Request) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(RequestSchema(req))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(requestSchemaURL, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to add request schema: %w", err)
	}
	schema, err := compiler.Compile(requestSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile request schema: %w", err)
	}
	return schema, nil
}

// FieldError is one request body problem reported in a 400 response.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// validateBody checks a decoded JSON body against schema.
func validateBody(schema *jsonschema.Schema, body any) []FieldError {
	err := schema.Validate(body)
	if err == nil {
		return nil
	}
	var out []FieldError
	if verr, ok := err.(*jsonschema.ValidationError); ok {
		collectSchemaErrors(verr, &out)
	} else {
		out = append(out, FieldError{Message: err.Error()})
	}
	return out
}

func collectSchemaErrors(err *jsonschema.ValidationError, out *[]FieldError) {
	if len(err.Causes) == 0 {
		*out = append(*out, FieldError{
			Field:   fieldFromPointer(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, out)
	}
}

// fieldFromPointer turns a JSON Pointer such as /items/0/name into
// items.0.name.
func fieldFromPointer(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	return strings.ReplaceAll(ptr, "/", ".")
}

// missingRequired reports required top-level fields absent from body. XML
// bodies decode to strings only, so they are checked for presence alone.
func missingRequired(fields []definition.Field, body map[string]any) []FieldError {
	var out []FieldError
	for _, f := range fields {
		if !f.Required {
			continue
		}
		if _, ok := body[f.Name]; !ok {
			out = append(out, FieldError{Field: f.Name, Message: "missing required field"})
		}
	}
	return out
}
