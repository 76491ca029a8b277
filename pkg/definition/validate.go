package definition

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ourohead/ourohead/pkg/condition"
)

// ErrInvalidDefinition is matched by every *ValidationError.
var ErrInvalidDefinition = errors.New("invalid api definition")

// Problem is one field-level validation failure.
type Problem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every problem found in a definition.
type ValidationError struct {
	Problems []Problem `json:"problems"`
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("validation error on %s: %s", e.Problems[0].Field, e.Problems[0].Message)
	}
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Message)
	}
	return fmt.Sprintf("%d validation errors: %s", len(e.Problems), strings.Join(parts, "; "))
}

// Is lets errors.Is(err, ErrInvalidDefinition) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidDefinition
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Problems = append(e.Problems, Problem{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks the definition and returns a *ValidationError listing
// every problem, or nil.
func (d *APIDefinition) Validate() error {
	if d == nil {
		return &ValidationError{Problems: []Problem{{Field: "endpoints", Message: "definition is required"}}}
	}

	verr := &ValidationError{}
	seen := make(map[string]int, len(d.Endpoints))
	for i := range d.Endpoints {
		ep := &d.Endpoints[i]
		prefix := fmt.Sprintf("endpoints[%d]", i)
		ep.validate(prefix, verr)

		key := ep.Key()
		if first, dup := seen[key]; dup {
			verr.add(prefix, "duplicate endpoint %s (also endpoints[%d])", key, first)
		} else {
			seen[key] = i
		}
	}

	if len(verr.Problems) > 0 {
		return verr
	}
	return nil
}

func (e *Endpoint) validate(prefix string, verr *ValidationError) {
	switch {
	case strings.TrimSpace(e.Path) == "":
		verr.add(prefix+".path", "path is required")
	case !strings.HasPrefix(strings.TrimSpace(e.Path), "/"):
		verr.add(prefix+".path", "path must start with /")
	}

	if e.Method == "" {
		verr.add(prefix+".method", "method is required")
	} else if !IsValidMethod(e.Method) {
		verr.add(prefix+".method", "unsupported method %q", e.Method)
	}

	if e.RequiresAuth {
		switch e.AuthType {
		case "", AuthBearer, AuthAPIKey, AuthBasic:
		default:
			verr.add(prefix+".authType", "unknown auth type %q", e.AuthType)
		}
	}

	codes := make(map[int]bool, len(e.Responses))
	for j, r := range e.Responses {
		rp := fmt.Sprintf("%s.responses[%d]", prefix, j)
		if r.StatusCode < 100 || r.StatusCode > 599 {
			verr.add(rp+".statusCode", "status code %d is out of range 100-599", r.StatusCode)
		}
		if codes[r.StatusCode] && r.When == "" {
			verr.add(rp+".statusCode", "status code %d is defined more than once", r.StatusCode)
		}
		codes[r.StatusCode] = true

		if r.When != "" {
			if _, err := condition.Compile(r.When); err != nil {
				verr.add(rp+".when", "%v", err)
			}
		}
		if r.Response != nil {
			if r.Response.Type != "" && r.Response.Type != FieldObject && r.Response.Type != FieldArray {
				verr.add(rp+".response.type", "response type must be object or array, got %q", r.Response.Type)
			}
			if r.Response.Count < 0 {
				verr.add(rp+".response.count", "count must not be negative")
			}
			validateFields(rp+".response.fields", r.Response.Fields, verr)
		}
	}

	if e.Request != nil {
		validateFields(prefix+".request.fields", e.Request.Fields, verr)
	}
}

func validateFields(prefix string, fields []Field, verr *ValidationError) {
	names := make(map[string]bool, len(fields))
	for i, f := range fields {
		fp := fmt.Sprintf("%s[%d]", prefix, i)
		if strings.TrimSpace(f.Name) == "" {
			verr.add(fp+".name", "field name is required")
		} else if names[f.Name] {
			verr.add(fp+".name", "duplicate field %q", f.Name)
		}
		names[f.Name] = true

		if !slices.Contains(FieldTypes, f.Type) {
			verr.add(fp+".type", "unknown field type %q", f.Type)
		}
		if len(f.Fields) > 0 {
			validateFields(fp+".fields", f.Fields, verr)
		}
	}
}
