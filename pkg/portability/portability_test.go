package portability

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ourohead/ourohead/pkg/definition"
)

func strPtr(s string) *string { return &s }

func sampleDefinition() *definition.APIDefinition {
	return &definition.APIDefinition{Endpoints: []definition.Endpoint{
		{
			Path:        "/users",
			Method:      "GET",
			Description: "List users",
			Responses: []definition.StatusResponse{
				{StatusCode: 200, Response: &definition.ResponseSchema{
					Type:  definition.FieldArray,
					Count: 3,
					Fields: []definition.Field{
						{Name: "id", Type: definition.FieldUUID, Required: true},
						{Name: "email", Type: definition.FieldEmail, FakerType: "internet.email"},
						{Name: "age", Type: definition.FieldInteger, DefaultValue: strPtr("30")},
					},
				}},
				{StatusCode: 500},
			},
		},
		{
			Path:         "/users/{id}",
			Method:       "PUT",
			RequiresAuth: true,
			AuthType:     definition.AuthAPIKey,
			AuthHeader:   "X-Token",
			Request: &definition.Request{
				Type: definition.FieldObject,
				Fields: []definition.Field{
					{Name: "name", Type: definition.FieldString, Required: true},
					{Name: "address", Type: definition.FieldObject, Fields: []definition.Field{
						{Name: "city", Type: definition.FieldString},
					}},
				},
			},
			Responses: []definition.StatusResponse{
				{StatusCode: 200, Response: &definition.ResponseSchema{Type: definition.FieldObject, Fields: []definition.Field{
					{Name: "updatedAt", Type: definition.FieldDateTime},
				}}},
			},
		},
		{
			Path:         "/secure",
			Method:       "DELETE",
			RequiresAuth: true,
			AuthType:     definition.AuthBearer,
			Responses:    []definition.StatusResponse{{StatusCode: 204}},
		},
	}}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		filename string
		expected Format
	}{
		{"curl command", `curl https://api.example.com/users`, "", FormatCURL},
		{"curl with tab", "curl\thttps://api.example.com/users", "", FormatCURL},
		{"curl with leading whitespace", "  curl https://api.example.com", "", FormatCURL},
		{"OpenAPI JSON", `{"openapi": "3.0.3", "info": {"title": "Test"}}`, "api.json", FormatOpenAPI},
		{"OpenAPI YAML", "openapi: '3.0.3'\ninfo:\n  title: Test", "api.yaml", FormatOpenAPI},
		{"OpenAPI YAML without extension", "openapi: 3.1.0\n", "", FormatOpenAPI},
		{"native JSON", `{"endpoints": []}`, "mock.json", FormatNative},
		{"native YAML", "endpoints:\n  - path: /a\n", "mock.yml", FormatNative},
		{"unknown JSON", `{"foo": 1}`, "x.json", FormatUnknown},
		{"unknown extension", `{"endpoints": []}`, "x.txt", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectFormat([]byte(tt.data), tt.filename))
		})
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatNative, ParseFormat("Native"))
	assert.Equal(t, FormatNative, ParseFormat("ourohead"))
	assert.Equal(t, FormatOpenAPI, ParseFormat("oas"))
	assert.Equal(t, FormatCURL, ParseFormat(" curl "))
	assert.Equal(t, FormatUnknown, ParseFormat("har"))

	assert.True(t, FormatCURL.CanImport())
	assert.False(t, FormatCURL.CanExport())
	assert.True(t, FormatOpenAPI.CanExport())
	assert.False(t, FormatUnknown.IsValid())
}

func TestNativeRoundTrip(t *testing.T) {
	def := sampleDefinition()

	for _, asYAML := range []bool{false, true} {
		data, err := Export(def, &ExportOptions{AsYAML: asYAML})
		require.NoError(t, err)

		res, err := ImportAs(data, FormatNative)
		require.NoError(t, err)
		assert.Equal(t, 3, res.EndpointCount)
		assert.Equal(t, def.Endpoints[1].AuthHeader, res.Definition.Endpoints[1].AuthHeader)
		assert.Equal(t, "30", *res.Definition.Endpoints[0].Responses[0].Response.Fields[2].DefaultValue)
	}
}

func TestNativeImport_SyntaxErrorLine(t *testing.T) {
	_, err := ImportAs([]byte("{\n\"endpoints\": [\n,]\n}"), FormatNative)
	require.Error(t, err)

	var ierr *ImportError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, FormatNative, ierr.Format)
	assert.Equal(t, 3, ierr.Line)
	assert.Contains(t, err.Error(), "(line 3)")
}

func TestImport_UnknownFormat(t *testing.T) {
	_, err := Import([]byte("hello"), "notes.txt")
	var ierr *ImportError
	require.True(t, errors.As(err, &ierr))
	assert.Contains(t, ierr.Message, "unable to detect")
}

func TestExport_UnsupportedFormat(t *testing.T) {
	_, err := Export(sampleDefinition(), &ExportOptions{Format: FormatCURL})
	var eerr *ExportError
	require.True(t, errors.As(err, &eerr))
	assert.Equal(t, FormatCURL, eerr.Format)
}

func TestExportOptions_ContentType(t *testing.T) {
	assert.Equal(t, "application/json", (*ExportOptions)(nil).ContentType())
	assert.Equal(t, "application/yaml", (&ExportOptions{AsYAML: true}).ContentType())
}

func TestOpenAPIExport_Document(t *testing.T) {
	doc := (&OpenAPIExporter{}).Document(sampleDefinition())

	assert.Equal(t, DefaultOpenAPITitle, doc.Info.Title)
	assert.Equal(t, DefaultOpenAPIVersion, doc.Info.Version)

	list := doc.Paths.Value("/users").Get
	require.NotNil(t, list)
	assert.Equal(t, "List users", list.Summary)
	assert.Equal(t, "getUsers", list.OperationID)
	assert.Nil(t, list.Responses.Value("default"))

	ok := list.Responses.Status(200).Value
	schema := ok.Content.Get("application/json").Schema.Value
	assert.True(t, schema.Type.Is("array"))
	item := schema.Items.Value
	assert.Equal(t, []string{"id"}, item.Required)
	assert.Equal(t, "uuid", item.Properties["id"].Value.Format)
	assert.Equal(t, "internet.email", item.Properties["email"].Value.Extensions[fakerExtension])
	assert.EqualValues(t, 30, item.Properties["age"].Value.Default)

	assert.NotNil(t, list.Responses.Status(500))

	put := doc.Paths.Value("/users/{id}").Put
	require.NotNil(t, put)
	require.Len(t, put.Parameters, 1)
	assert.Equal(t, "id", put.Parameters[0].Value.Name)
	require.NotNil(t, put.RequestBody)
	assert.True(t, put.RequestBody.Value.Required)
	require.NotNil(t, put.Security)
	assert.Contains(t, (*put.Security)[0], schemeAPIKey)

	require.NotNil(t, doc.Components)
	key := doc.Components.SecuritySchemes[schemeAPIKey].Value
	assert.Equal(t, "apiKey", key.Type)
	assert.Equal(t, "X-Token", key.Name)
	bearer := doc.Components.SecuritySchemes[schemeBearer].Value
	assert.Equal(t, "bearer", bearer.Scheme)
}

func TestOpenAPIExport_EmptyResponses(t *testing.T) {
	def := &definition.APIDefinition{Endpoints: []definition.Endpoint{{Path: "/x", Method: "GET"}}}
	doc := (&OpenAPIExporter{Title: "T", Version: "2"}).Document(def)
	assert.Equal(t, "T", doc.Info.Title)
	assert.NotNil(t, doc.Paths.Value("/x").Get.Responses.Value("default"))
}

func TestOpenAPIRoundTrip(t *testing.T) {
	def := sampleDefinition()

	for _, asYAML := range []bool{false, true} {
		data, err := Export(def, &ExportOptions{Format: FormatOpenAPI, AsYAML: asYAML})
		require.NoError(t, err)

		filename := "api.json"
		if asYAML {
			filename = "api.yaml"
		}
		res, err := Import(data, filename)
		require.NoError(t, err)
		assert.Equal(t, FormatOpenAPI, res.Format)
		require.Equal(t, 3, res.EndpointCount)

		got := res.Definition
		del, ok := got.Find("DELETE", "/secure")
		require.True(t, ok)
		assert.True(t, del.RequiresAuth)
		assert.Equal(t, definition.AuthBearer, del.AuthType)

		put, ok := got.Find("PUT", "/users/{id}")
		require.True(t, ok)
		assert.Equal(t, definition.AuthAPIKey, put.AuthType)
		assert.Equal(t, "X-Token", put.AuthHeader)
		require.NotNil(t, put.Request)
		require.Len(t, put.Request.Fields, 2)
		assert.Equal(t, "address", put.Request.Fields[0].Name)
		assert.Equal(t, definition.FieldObject, put.Request.Fields[0].Type)
		assert.Equal(t, "name", put.Request.Fields[1].Name)
		assert.True(t, put.Request.Fields[1].Required)

		list, ok := got.Find("GET", "/users")
		require.True(t, ok)
		require.Len(t, list.Responses, 2)
		assert.Equal(t, 200, list.Responses[0].StatusCode)
		assert.Equal(t, 500, list.Responses[1].StatusCode)
		body := list.Responses[0].Response
		require.NotNil(t, body)
		assert.Equal(t, definition.FieldArray, body.Type)
		fields := map[string]definition.Field{}
		for _, f := range body.Fields {
			fields[f.Name] = f
		}
		assert.Equal(t, definition.FieldUUID, fields["id"].Type)
		assert.Equal(t, "internet.email", fields["email"].FakerType)
		require.NotNil(t, fields["age"].DefaultValue)
		assert.Equal(t, "30", *fields["age"].DefaultValue)
	}
}

func TestOpenAPIImport_Warnings(t *testing.T) {
	spec := `openapi: 3.0.3
info:
  title: Pets
  version: "1"
security:
  - basic: []
components:
  securitySchemes:
    basic:
      type: http
      scheme: basic
paths:
  /pets:
    get:
      description: All pets
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: array
                items:
                  type: object
                  properties:
                    born:
                      type: string
                      format: date
        "2XX":
          description: range
        default:
          description: error
    trace:
      responses:
        "200":
          description: ok
`
	res, err := ImportAs([]byte(spec), FormatOpenAPI)
	require.NoError(t, err)
	require.Equal(t, 1, res.EndpointCount)

	ep := res.Definition.Endpoints[0]
	assert.Equal(t, "All pets", ep.Description)
	assert.Equal(t, definition.AuthBasic, ep.AuthType)
	require.Len(t, ep.Responses, 1)
	assert.Equal(t, definition.FieldDate, ep.Responses[0].Response.Fields[0].Type)

	joined := strings.Join(res.Warnings, "\n")
	assert.Contains(t, joined, "TRACE /pets")
	assert.Contains(t, joined, `"2XX"`)
	assert.NotContains(t, joined, "default")
}

func TestOpenAPIImport_Errors(t *testing.T) {
	_, err := ImportAs([]byte("not: [valid"), FormatOpenAPI)
	require.Error(t, err)

	_, err = ImportAs([]byte(`{"openapi": "2.0", "info": {"title": "x", "version": "1"}, "paths": {}}`), FormatOpenAPI)
	var ierr *ImportError
	require.True(t, errors.As(err, &ierr))
	assert.Contains(t, ierr.Message, "unsupported OpenAPI version")
}

func TestTokenizeCURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plain", "curl http://x/a", []string{"curl", "http://x/a"}},
		{"double quotes", `curl -H "A: b c" http://x`, []string{"curl", "-H", "A: b c", "http://x"}},
		{"single quotes keep backslash", `curl -d '{"a":"\n"}' x`, []string{"curl", "-d", `{"a":"\n"}`, "x"}},
		{"line continuation", "curl \\\n  -X PUT \\\n  http://x", []string{"curl", "-X", "PUT", "http://x"}},
		{"empty quoted", `curl -d '' x`, []string{"curl", "-d", "", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenizeCURL(tt.in))
		})
	}
}

func TestCURLImport(t *testing.T) {
	cmd := `curl -X POST https://api.example.com/users/42/orders?x=1 \
  -H 'Authorization: Bearer abc' \
  -H 'Content-Type: application/json' \
  -d '{"item":"book","qty":2,"price":9.5,"gift":false,"buyer":{"email":"a@b.io"},"tags":["x"]}'`

	res, err := Import([]byte(cmd), "")
	require.NoError(t, err)
	assert.Equal(t, FormatCURL, res.Format)
	require.Equal(t, 1, res.EndpointCount)

	ep := res.Definition.Endpoints[0]
	assert.Equal(t, "POST", ep.Method)
	assert.Equal(t, "/users/{id}/orders", ep.Path)
	assert.True(t, ep.RequiresAuth)
	assert.Equal(t, definition.AuthBearer, ep.AuthType)

	require.NotNil(t, ep.Request)
	types := map[string]string{}
	for _, f := range ep.Request.Fields {
		types[f.Name] = f.Type
	}
	assert.Equal(t, map[string]string{
		"buyer": definition.FieldObject,
		"gift":  definition.FieldBoolean,
		"item":  definition.FieldString,
		"price": definition.FieldNumber,
		"qty":   definition.FieldInteger,
		"tags":  definition.FieldArray,
	}, types)
	assert.Equal(t, definition.FieldEmail, ep.Request.Fields[0].Fields[0].Type)

	require.Len(t, ep.Responses, 1)
	assert.Equal(t, 201, ep.Responses[0].StatusCode)
}

func TestCURLImport_DefaultsAndErrors(t *testing.T) {
	res, err := ImportAs([]byte("curl -u admin:pw https://x.io"), FormatCURL)
	require.NoError(t, err)
	ep := res.Definition.Endpoints[0]
	assert.Equal(t, "GET", ep.Method)
	assert.Equal(t, "/", ep.Path)
	assert.Equal(t, definition.AuthBasic, ep.AuthType)
	require.Len(t, ep.Responses, 1)
	assert.Equal(t, "status", ep.Responses[0].Response.Fields[0].Name)

	_, err = ImportAs([]byte("curl -X GET"), FormatCURL)
	assert.Error(t, err)

	_, err = ImportAs([]byte("wget http://x"), FormatCURL)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	dst := sampleDefinition()
	src := &definition.APIDefinition{Endpoints: []definition.Endpoint{
		{Path: "/users", Method: "GET", Description: "replaced"},
		{Path: "/new", Method: "POST"},
	}}

	replaced := Merge(dst, src)
	assert.Equal(t, 1, replaced)
	require.Len(t, dst.Endpoints, 4)
	assert.Equal(t, "replaced", dst.Endpoints[0].Description)
	assert.Equal(t, "/new", dst.Endpoints[3].Path)

	src.Endpoints[1].Path = "/changed"
	assert.Equal(t, "/new", dst.Endpoints[3].Path)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []Format{FormatCURL, FormatNative, FormatOpenAPI}, r.ImportFormats())
	assert.NotNil(t, r.GetExporter(FormatOpenAPI))
	assert.Nil(t, r.GetExporter(FormatCURL))

	r.RegisterImporter(nil)
	assert.Len(t, r.ImportFormats(), 3)
}

func TestOpenAPIExport_ValidJSON(t *testing.T) {
	data, err := (&OpenAPIExporter{}).Export(sampleDefinition(), false)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "3.0.3", raw["openapi"])
}
