package definition

import (
	"net/http"
	"strings"
)

// Field types understood by the dummy data generator.
const (
	FieldString   = "string"
	FieldNumber   = "number"
	FieldInteger  = "integer"
	FieldBoolean  = "boolean"
	FieldObject   = "object"
	FieldArray    = "array"
	FieldDate     = "date"
	FieldDateTime = "datetime"
	FieldUUID     = "uuid"
	FieldEmail    = "email"
)

// FieldTypes lists every accepted Field.Type value.
var FieldTypes = []string{
	FieldString, FieldNumber, FieldInteger, FieldBoolean, FieldObject,
	FieldArray, FieldDate, FieldDateTime, FieldUUID, FieldEmail,
}

// Auth types for endpoints with RequiresAuth set.
const (
	AuthBearer = "bearer"
	AuthAPIKey = "apiKey"
	AuthBasic  = "basic"
)

// DefaultAPIKeyHeader is used for apiKey auth when AuthHeader is empty.
const DefaultAPIKeyHeader = "X-API-Key"

// Field describes one property of a request or response body.
type Field struct {
	Name         string  `json:"name" yaml:"name"`
	Type         string  `json:"type" yaml:"type"`
	Description  string  `json:"description,omitempty" yaml:"description,omitempty"`
	Required     bool    `json:"required,omitempty" yaml:"required,omitempty"`
	DefaultValue *string `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	FakerType    string  `json:"fakerType,omitempty" yaml:"fakerType,omitempty"`

	// Fields describes nested properties for object fields and the item
	// shape for array fields.
	Fields []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// ResponseSchema is the body shape returned for one status code.
type ResponseSchema struct {
	// Type is "object" or "array". An array repeats Fields Count times.
	Type        string  `json:"type" yaml:"type"`
	ContentType string  `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Count       int     `json:"count,omitempty" yaml:"count,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// StatusResponse pairs a status code with its response body.
type StatusResponse struct {
	StatusCode int             `json:"statusCode" yaml:"statusCode"`
	Response   *ResponseSchema `json:"response,omitempty" yaml:"response,omitempty"`

	// When is an optional expression selecting this response at request
	// time, for example `query.mode == "empty"`.
	When string `json:"when,omitempty" yaml:"when,omitempty"`
}

// Request describes the expected request body.
type Request struct {
	Type        string  `json:"type" yaml:"type"`
	ContentType string  `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// Endpoint is one user-defined HTTP endpoint.
type Endpoint struct {
	Path         string           `json:"path" yaml:"path"`
	Method       string           `json:"method" yaml:"method"`
	Description  string           `json:"description" yaml:"description"`
	Responses    []StatusResponse `json:"responses" yaml:"responses"`
	RequiresAuth bool             `json:"requiresAuth,omitempty" yaml:"requiresAuth,omitempty"`
	AuthType     string           `json:"authType,omitempty" yaml:"authType,omitempty"`
	AuthHeader   string           `json:"authHeader,omitempty" yaml:"authHeader,omitempty"`
	Request      *Request         `json:"request,omitempty" yaml:"request,omitempty"`
}

// APIDefinition is the full set of endpoints being edited.
type APIDefinition struct {
	Endpoints []Endpoint `json:"endpoints" yaml:"endpoints"`
}

// Key identifies an endpoint by method and path.
func (e *Endpoint) Key() string {
	return strings.ToUpper(e.Method) + " " + e.Path
}

// PreviewResponse picks the response used for previews and for requests
// that no condition selects: the first 2xx response, otherwise the first
// response, otherwise nil.
func (e *Endpoint) PreviewResponse() *StatusResponse {
	for i := range e.Responses {
		code := e.Responses[i].StatusCode
		if code >= 200 && code < 300 {
			return &e.Responses[i]
		}
	}
	if len(e.Responses) > 0 {
		return &e.Responses[0]
	}
	return nil
}

// ResponseFor returns the response defined for code, or nil.
func (e *Endpoint) ResponseFor(code int) *StatusResponse {
	for i := range e.Responses {
		if e.Responses[i].StatusCode == code {
			return &e.Responses[i]
		}
	}
	return nil
}

// AuthHeaderName returns the header inspected for auth.
func (e *Endpoint) AuthHeaderName() string {
	if e.AuthHeader != "" {
		return e.AuthHeader
	}
	switch e.AuthType {
	case AuthAPIKey:
		return DefaultAPIKeyHeader
	default:
		return "Authorization"
	}
}

// Normalize upper-cases methods, trims paths and fills empty body types.
func (d *APIDefinition) Normalize() {
	for i := range d.Endpoints {
		ep := &d.Endpoints[i]
		ep.Method = strings.ToUpper(strings.TrimSpace(ep.Method))
		ep.Path = strings.TrimSpace(ep.Path)
		if ep.Responses == nil {
			ep.Responses = []StatusResponse{}
		}
		for j := range ep.Responses {
			if r := ep.Responses[j].Response; r != nil && r.Type == "" {
				r.Type = FieldObject
			}
		}
		if ep.Request != nil && ep.Request.Type == "" {
			ep.Request.Type = FieldObject
		}
	}
	if d.Endpoints == nil {
		d.Endpoints = []Endpoint{}
	}
}

// Find returns the endpoint with the given method and path.
func (d *APIDefinition) Find(method, path string) (*Endpoint, bool) {
	for i := range d.Endpoints {
		if strings.EqualFold(d.Endpoints[i].Method, method) && d.Endpoints[i].Path == path {
			return &d.Endpoints[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of d.
func (d *APIDefinition) Clone() *APIDefinition {
	if d == nil {
		return nil
	}
	out := &APIDefinition{Endpoints: make([]Endpoint, len(d.Endpoints))}
	for i, ep := range d.Endpoints {
		out.Endpoints[i] = ep.clone()
	}
	return out
}

func (e Endpoint) clone() Endpoint {
	out := e
	if e.Responses != nil {
		out.Responses = make([]StatusResponse, len(e.Responses))
	}
	for i, r := range e.Responses {
		out.Responses[i] = r
		out.Responses[i].Response = r.Response.Clone()
	}
	if e.Request != nil {
		req := *e.Request
		req.Fields = cloneFields(e.Request.Fields)
		out.Request = &req
	}
	return out
}

// Clone returns a deep copy of s.
func (s *ResponseSchema) Clone() *ResponseSchema {
	if s == nil {
		return nil
	}
	out := *s
	out.Fields = cloneFields(s.Fields)
	return &out
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = f
		if f.DefaultValue != nil {
			v := *f.DefaultValue
			out[i].DefaultValue = &v
		}
		out[i].Fields = cloneFields(f.Fields)
	}
	return out
}

// validMethods are the methods an endpoint may declare.
var validMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// IsValidMethod reports whether method (any case) may be used by an endpoint.
func IsValidMethod(method string) bool {
	return validMethods[strings.ToUpper(method)]
}
