package portability

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/ourohead/ourohead/pkg/definition"
)

// OpenAPI export defaults.
const (
	DefaultOpenAPITitle   = "ourohead mock API"
	DefaultOpenAPIVersion = "1.0.0"
	openAPIVersion        = "3.0.3"
	fakerExtension        = "x-faker"
	maxSchemaDepth        = 16
)

// Security scheme names used in exported documents.
const (
	schemeBearer = "bearerAuth"
	schemeBasic  = "basicAuth"
	schemeAPIKey = "apiKeyAuth"
)

// OpenAPIExporter renders definitions as OpenAPI 3.0 documents.
type OpenAPIExporter struct {
	Title   string
	Version string
}

// Format returns FormatOpenAPI.
func (e *OpenAPIExporter) Format() Format {
	return FormatOpenAPI
}

// Export renders def as an OpenAPI document.
func (e *OpenAPIExporter) Export(def *definition.APIDefinition, asYAML bool) ([]byte, error) {
	doc := e.Document(def)
	var (
		data []byte
		err  error
	)
	if asYAML {
		data, err = yaml.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return nil, &ExportError{Format: FormatOpenAPI, Message: "failed to encode document", Cause: err}
	}
	return data, nil
}

// Document builds the OpenAPI document for def.
func (e *OpenAPIExporter) Document(def *definition.APIDefinition) *openapi3.T {
	title, version := e.Title, e.Version
	if title == "" {
		title = DefaultOpenAPITitle
	}
	if version == "" {
		version = DefaultOpenAPIVersion
	}

	doc := &openapi3.T{
		OpenAPI: openAPIVersion,
		Info:    &openapi3.Info{Title: title, Version: version},
		Paths:   openapi3.NewPaths(),
	}
	schemes := openapi3.SecuritySchemes{}

	for _, ep := range def.Endpoints {
		op := openapi3.NewOperation()
		op.Summary = ep.Description
		op.OperationID = operationID(ep.Method, ep.Path)
		op.Responses = openapi3.NewResponsesWithCapacity(len(ep.Responses))

		for _, p := range pathParamNames(ep.Path) {
			op.AddParameter(openapi3.NewPathParameter(p).WithSchema(openapi3.NewStringSchema()))
		}

		if ep.Request != nil && len(ep.Request.Fields) > 0 {
			ct := ep.Request.ContentType
			if ct == "" {
				ct = "application/json"
			}
			body := openapi3.NewRequestBody().
				WithRequired(hasRequiredField(ep.Request.Fields)).
				WithSchema(bodySchema(ep.Request.Type, ep.Request.Fields), []string{ct})
			op.RequestBody = &openapi3.RequestBodyRef{Value: body}
		}

		for _, sr := range ep.Responses {
			resp := openapi3.NewResponse().WithDescription(statusDescription(sr))
			if sr.Response != nil {
				ct := sr.Response.ContentType
				if ct == "" {
					ct = "application/json"
				}
				resp.Content = openapi3.NewContentWithSchema(bodySchema(sr.Response.Type, sr.Response.Fields), []string{ct})
			}
			op.AddResponse(sr.StatusCode, resp)
		}
		if op.Responses.Len() == 0 {
			op.AddResponse(0, openapi3.NewResponse().WithDescription("default response"))
		}

		if ep.RequiresAuth {
			name, scheme := securityScheme(&ep)
			schemes[name] = &openapi3.SecuritySchemeRef{Value: scheme}
			op.Security = openapi3.NewSecurityRequirements().With(openapi3.NewSecurityRequirement().Authenticate(name))
		}

		doc.AddOperation(ep.Path, strings.ToUpper(ep.Method), op)
	}

	if len(schemes) > 0 {
		doc.Components = &openapi3.Components{SecuritySchemes: schemes}
	}
	return doc
}

func statusDescription(sr definition.StatusResponse) string {
	if sr.When != "" {
		return "when " + sr.When
	}
	if text := httpStatusText(sr.StatusCode); text != "" {
		return text
	}
	return "status " + strconv.Itoa(sr.StatusCode)
}

func securityScheme(ep *definition.Endpoint) (string, *openapi3.SecurityScheme) {
	switch ep.AuthType {
	case definition.AuthBasic:
		return schemeBasic, openapi3.NewSecurityScheme().WithType("http").WithScheme("basic")
	case definition.AuthAPIKey:
		return schemeAPIKey, openapi3.NewSecurityScheme().WithType("apiKey").WithIn("header").WithName(ep.AuthHeaderName())
	default:
		return schemeBearer, openapi3.NewJWTSecurityScheme()
	}
}

func bodySchema(typ string, fields []definition.Field) *openapi3.Schema {
	obj := objectSchema(fields)
	if typ == definition.FieldArray {
		return openapi3.NewArraySchema().WithItems(obj)
	}
	return obj
}

func objectSchema(fields []definition.Field) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	var required []string
	for _, f := range fields {
		s.WithProperty(f.Name, fieldSchema(f))
		if f.Required {
			required = append(required, f.Name)
		}
	}
	if len(required) > 0 {
		s.Required = required
	}
	return s
}

func fieldSchema(f definition.Field) *openapi3.Schema {
	var s *openapi3.Schema
	switch f.Type {
	case definition.FieldNumber:
		s = openapi3.NewFloat64Schema()
	case definition.FieldInteger:
		s = openapi3.NewIntegerSchema()
	case definition.FieldBoolean:
		s = openapi3.NewBoolSchema()
	case definition.FieldObject:
		s = objectSchema(f.Fields)
	case definition.FieldArray:
		if len(f.Fields) > 0 {
			s = openapi3.NewArraySchema().WithItems(objectSchema(f.Fields))
		} else {
			s = openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
		}
	case definition.FieldDate:
		s = openapi3.NewStringSchema().WithFormat("date")
	case definition.FieldDateTime:
		s = openapi3.NewDateTimeSchema()
	case definition.FieldUUID:
		s = openapi3.NewUUIDSchema()
	case definition.FieldEmail:
		s = openapi3.NewStringSchema().WithFormat("email")
	default:
		s = openapi3.NewStringSchema()
	}
	s.Description = f.Description
	if f.DefaultValue != nil {
		s.Default = exampleValue(f.Type, *f.DefaultValue)
	}
	if f.FakerType != "" {
		s.Extensions = map[string]any{fakerExtension: f.FakerType}
	}
	return s
}

// exampleValue types a default for the document, falling back to the raw
// string.
func exampleValue(typ, raw string) any {
	switch typ {
	case definition.FieldNumber:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	case definition.FieldInteger:
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return v
		}
	case definition.FieldBoolean:
		if v, err := strconv.ParseBool(raw); err == nil {
			return v
		}
	case definition.FieldObject, definition.FieldArray:
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v
		}
	}
	return raw
}

func operationID(method, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for _, seg := range strings.Split(path, "/") {
		seg = strings.Trim(seg, "{}*")
		if seg == "" {
			continue
		}
		b.WriteString(strings.ToUpper(seg[:1]))
		b.WriteString(seg[1:])
	}
	return b.String()
}

func pathParamNames(path string) []string {
	var names []string
	for _, seg := range strings.Split(path, "/") {
		if len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}' {
			names = append(names, seg[1:len(seg)-1])
		}
	}
	return names
}

func hasRequiredField(fields []definition.Field) bool {
	return slices.ContainsFunc(fields, func(f definition.Field) bool { return f.Required })
}

// OpenAPIImporter converts OpenAPI 3.x documents into definitions.
type OpenAPIImporter struct{}

// Format returns FormatOpenAPI.
func (i *OpenAPIImporter) Format() Format {
	return FormatOpenAPI
}

// Import parses an OpenAPI 3.x document in JSON or YAML.
func (i *OpenAPIImporter) Import(data []byte) (*definition.APIDefinition, error) {
	def, _, err := i.ImportWithWarnings(data)
	return def, err
}

// ImportWithWarnings is Import that also reports skipped operations and
// responses.
func (i *OpenAPIImporter) ImportWithWarnings(data []byte) (*definition.APIDefinition, []string, error) {
	w := &openAPIWalk{}
	def, err := w.load(data)
	if err != nil {
		return nil, nil, err
	}
	return def, w.warnings, nil
}

type openAPIWalk struct {
	warnings []string
}

func (i *openAPIWalk) load(data []byte) (*definition.APIDefinition, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, &ImportError{Format: FormatOpenAPI, Message: "failed to parse specification", Cause: err}
	}
	if !strings.HasPrefix(doc.OpenAPI, "3.") {
		return nil, &ImportError{Format: FormatOpenAPI, Message: fmt.Sprintf("unsupported OpenAPI version %q", doc.OpenAPI)}
	}

	def := &definition.APIDefinition{Endpoints: []definition.Endpoint{}}
	if doc.Paths == nil {
		return def, nil
	}

	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for k := range paths {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, path := range keys {
		ops := paths[path].Operations()
		methods := make([]string, 0, len(ops))
		for m := range ops {
			methods = append(methods, m)
		}
		slices.Sort(methods)

		for _, method := range methods {
			if !definition.IsValidMethod(method) {
				i.warnings = append(i.warnings, fmt.Sprintf("skipped %s %s: unsupported method", method, path))
				continue
			}
			def.Endpoints = append(def.Endpoints, i.endpoint(doc, path, method, ops[method]))
		}
	}
	return def, nil
}

func (i *openAPIWalk) endpoint(doc *openapi3.T, path, method string, op *openapi3.Operation) definition.Endpoint {
	ep := definition.Endpoint{
		Path:        path,
		Method:      method,
		Description: op.Summary,
		Responses:   []definition.StatusResponse{},
	}
	if ep.Description == "" {
		ep.Description = op.Description
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		if ct, mt := pickMediaType(op.RequestBody.Value.Content); mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			typ, fields := schemaBody(mt.Schema.Value)
			ep.Request = &definition.Request{Type: typ, ContentType: contentTypeOrEmpty(ct), Fields: fields}
		}
	}

	if op.Responses != nil {
		codes := make([]int, 0, op.Responses.Len())
		for key := range op.Responses.Map() {
			code, err := strconv.Atoi(key)
			if err != nil {
				if key != "default" {
					i.warnings = append(i.warnings, fmt.Sprintf("skipped response %q on %s %s", key, method, path))
				}
				continue
			}
			codes = append(codes, code)
		}
		slices.Sort(codes)
		for _, code := range codes {
			ref := op.Responses.Status(code)
			sr := definition.StatusResponse{StatusCode: code}
			if ref != nil && ref.Value != nil {
				if ct, mt := pickMediaType(ref.Value.Content); mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
					typ, fields := schemaBody(mt.Schema.Value)
					sr.Response = &definition.ResponseSchema{Type: typ, ContentType: contentTypeOrEmpty(ct), Fields: fields}
				}
			}
			ep.Responses = append(ep.Responses, sr)
		}
	}

	security := doc.Security
	if op.Security != nil {
		security = *op.Security
	}
	applySecurity(doc, security, &ep)
	return ep
}

// applySecurity maps the first usable requirement onto the endpoint's auth.
func applySecurity(doc *openapi3.T, reqs openapi3.SecurityRequirements, ep *definition.Endpoint) {
	if doc.Components == nil {
		return
	}
	for _, req := range reqs {
		for name := range req {
			ref := doc.Components.SecuritySchemes[name]
			if ref == nil || ref.Value == nil {
				continue
			}
			s := ref.Value
			switch {
			case s.Type == "http" && strings.EqualFold(s.Scheme, "bearer"):
				ep.RequiresAuth, ep.AuthType = true, definition.AuthBearer
			case s.Type == "http" && strings.EqualFold(s.Scheme, "basic"):
				ep.RequiresAuth, ep.AuthType = true, definition.AuthBasic
			case s.Type == "apiKey" && s.In == "header":
				ep.RequiresAuth, ep.AuthType = true, definition.AuthAPIKey
				if s.Name != definition.DefaultAPIKeyHeader {
					ep.AuthHeader = s.Name
				}
			case s.Type == "oauth2" || s.Type == "openIdConnect":
				ep.RequiresAuth, ep.AuthType = true, definition.AuthBearer
			default:
				continue
			}
			return
		}
	}
}

// pickMediaType prefers JSON, then XML, then the first type by name.
func pickMediaType(content openapi3.Content) (string, *openapi3.MediaType) {
	if len(content) == 0 {
		return "", nil
	}
	for _, ct := range []string{"application/json", "application/xml", "text/xml"} {
		if mt := content[ct]; mt != nil {
			return ct, mt
		}
	}
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys[0], content[keys[0]]
}

func contentTypeOrEmpty(ct string) string {
	if ct == "application/json" {
		return ""
	}
	return ct
}

// schemaBody converts a body schema into a body type and its fields.
func schemaBody(s *openapi3.Schema) (string, []definition.Field) {
	if s.Type.Is(openapi3.TypeArray) {
		if s.Items != nil && s.Items.Value != nil {
			return definition.FieldArray, schemaFields(s.Items.Value, 0)
		}
		return definition.FieldArray, []definition.Field{}
	}
	return definition.FieldObject, schemaFields(s, 0)
}

func schemaFields(s *openapi3.Schema, depth int) []definition.Field {
	fields := []definition.Field{}
	if depth > maxSchemaDepth {
		return fields
	}

	props := mergedProperties(s)
	names := make([]string, 0, len(props))
	for n := range props {
		names = append(names, n)
	}
	slices.Sort(names)

	required := requiredSet(s)
	for _, name := range names {
		ref := props[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		fields = append(fields, schemaField(name, ref.Value, required[name], depth))
	}
	return fields
}

// mergedProperties flattens allOf members into one property set.
func mergedProperties(s *openapi3.Schema) openapi3.Schemas {
	out := openapi3.Schemas{}
	for _, member := range s.AllOf {
		if member != nil && member.Value != nil {
			for k, v := range member.Value.Properties {
				out[k] = v
			}
		}
	}
	for k, v := range s.Properties {
		out[k] = v
	}
	return out
}

func requiredSet(s *openapi3.Schema) map[string]bool {
	out := make(map[string]bool)
	for _, r := range s.Required {
		out[r] = true
	}
	for _, member := range s.AllOf {
		if member != nil && member.Value != nil {
			for _, r := range member.Value.Required {
				out[r] = true
			}
		}
	}
	return out
}

func schemaField(name string, s *openapi3.Schema, required bool, depth int) definition.Field {
	f := definition.Field{Name: name, Required: required, Description: s.Description}

	switch {
	case s.Type.Is(openapi3.TypeInteger):
		f.Type = definition.FieldInteger
	case s.Type.Is(openapi3.TypeNumber):
		f.Type = definition.FieldNumber
	case s.Type.Is(openapi3.TypeBoolean):
		f.Type = definition.FieldBoolean
	case s.Type.Is(openapi3.TypeArray):
		f.Type = definition.FieldArray
		if s.Items != nil && s.Items.Value != nil && len(mergedProperties(s.Items.Value)) > 0 {
			f.Fields = schemaFields(s.Items.Value, depth+1)
		}
	case s.Type.Is(openapi3.TypeObject) || len(mergedProperties(s)) > 0:
		f.Type = definition.FieldObject
		f.Fields = schemaFields(s, depth+1)
	default:
		f.Type = stringFieldType(s.Format)
	}

	if s.Default != nil {
		def := defaultString(s.Default)
		f.DefaultValue = &def
	}
	if faker, ok := s.Extensions[fakerExtension].(string); ok {
		f.FakerType = faker
	}
	return f
}

func stringFieldType(format string) string {
	switch format {
	case "date":
		return definition.FieldDate
	case "date-time":
		return definition.FieldDateTime
	case "uuid":
		return definition.FieldUUID
	case "email":
		return definition.FieldEmail
	default:
		return definition.FieldString
	}
}

func defaultString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

var statusTexts = map[int]string{
	200: "OK", 201: "Created", 202: "Accepted", 204: "No Content",
	400: "Bad Request", 401: "Unauthorized", 403: "Forbidden", 404: "Not Found",
	409: "Conflict", 422: "Unprocessable Entity", 429: "Too Many Requests",
	500: "Internal Server Error", 502: "Bad Gateway", 503: "Service Unavailable",
}

func httpStatusText(code int) string {
	return statusTexts[code]
}
