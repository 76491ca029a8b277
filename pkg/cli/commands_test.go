package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/ourohead/ourohead/pkg/client"
	"github.com/ourohead/ourohead/pkg/config"
	"github.com/ourohead/ourohead/pkg/definition"
	"github.com/ourohead/ourohead/pkg/editor"
	"github.com/ourohead/ourohead/pkg/envelope"
	"github.com/ourohead/ourohead/pkg/logging"
)

func TestParseFieldSpec(t *testing.T) {
	tests := []struct {
		spec    string
		want    definition.Field
		wantErr bool
	}{
		{spec: "id:uuid", want: definition.Field{Name: "id", Type: "uuid"}},
		{spec: "active:boolean=true", want: definition.Field{Name: "active", Type: "boolean", DefaultValue: strPtr("true")}},
		{spec: "note:string=", want: definition.Field{Name: "note", Type: "string", DefaultValue: strPtr("")}},
		{spec: "noType", wantErr: true},
		{spec: ":string", wantErr: true},
		{spec: "x:money", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := parseFieldSpec(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func strPtr(s string) *string { return &s }

func resetAddFlags(t *testing.T) {
	t.Helper()
	saved := []any{addPath, addMethod, addDescription, addStatuses, addAuth, addAuthHeader, addFields}
	t.Cleanup(func() {
		addPath = saved[0].(string)
		addMethod = saved[1].(string)
		addDescription = saved[2].(string)
		addStatuses = saved[3].([]int)
		addAuth = saved[4].(string)
		addAuthHeader = saved[5].(string)
		addFields = saved[6].([]string)
	})
}

func TestBuildEndpoint(t *testing.T) {
	resetAddFlags(t)
	addPath = " /items/{id} "
	addMethod = "patch"
	addStatuses = []int{404, 200, 200, 401}
	addFields = []string{"name:string"}
	addAuth = definition.AuthAPIKey
	addAuthHeader = "X-Token"

	ep, err := buildEndpoint()
	require.NoError(t, err)
	assert.Equal(t, "PATCH", ep.Method)
	assert.Equal(t, "/items/{id}", ep.Path)
	assert.Equal(t, []int{200, 401, 404}, statusCodes(&ep))
	assert.True(t, ep.RequiresAuth)
	assert.Equal(t, "X-Token", ep.AuthHeader)

	// fields only extend success responses
	require.NotNil(t, ep.Responses[0].Response)
	assert.Equal(t, "name", ep.Responses[0].Response.Fields[len(ep.Responses[0].Response.Fields)-1].Name)
	for _, f := range ep.Responses[1].Response.Fields {
		assert.NotEqual(t, "name", f.Name)
	}
}

func TestBuildEndpoint_Errors(t *testing.T) {
	resetAddFlags(t)
	addPath = "/x"
	addMethod = "FETCH"
	_, err := buildEndpoint()
	assert.ErrorContains(t, err, "unsupported method")

	addMethod = "GET"
	addAuth = "digest"
	_, err = buildEndpoint()
	assert.ErrorContains(t, err, "unsupported auth type")
}

func TestStatusOptions(t *testing.T) {
	opts := statusOptions()
	require.NotEmpty(t, opts)
	assert.Equal(t, 200, opts[0].Value)
}

func TestExpandGlobs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a/one.yaml", "a/b/two.yaml", "three.json"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("{}"), 0o644))
	}

	files, err := expandGlobs([]string{
		filepath.Join(dir, "**", "*.yaml"),
		filepath.Join(dir, "a", "*.yaml"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a", "b", "two.yaml"),
		filepath.Join(dir, "a", "one.yaml"),
	}, files)

	_, err = expandGlobs([]string{filepath.Join(dir, "*.xml")})
	assert.ErrorContains(t, err, "no files match")
}

func TestParseIndex(t *testing.T) {
	def := &definition.APIDefinition{Endpoints: make([]definition.Endpoint, 2)}

	i, err := parseIndex("1", def)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = parseIndex("two", def)
	assert.ErrorIs(t, err, errEndpointIndex)
	_, err = parseIndex("2", def)
	assert.ErrorContains(t, err, "no endpoint at index 2")
	_, err = parseIndex("-1", def)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	def := &definition.APIDefinition{Endpoints: []definition.Endpoint{
		{Path: "/a", Method: "GET", Responses: []definition.StatusResponse{{StatusCode: 200}}},
		{Path: "/b", Method: "OPTIONS", Description: "opts", RequiresAuth: true, AuthType: "basic"},
	}}
	got := summarize(def)
	require.Len(t, got, 2)
	assert.Equal(t, "#61affe", got[0].Color)
	assert.Equal(t, definition.NoDescription, got[0].Description)
	assert.Equal(t, []int{200}, got[0].Statuses)
	assert.Equal(t, "#999", got[1].Color)
	assert.Equal(t, "basic", got[1].Auth)
	assert.Equal(t, "-", joinCodes(got[1].Statuses))
}

func TestStatusCategory(t *testing.T) {
	assert.Equal(t, "success", statusCategory(201))
	assert.Equal(t, "client error", statusCategory(404))
	assert.Equal(t, "server error", statusCategory(503))
}

func TestConfigEntries(t *testing.T) {
	cfg := config.Default()
	cfg.Set("auth.jwtSecret", func(c *config.Config) { c.Auth.JWTSecret = "secret" })

	byKey := map[string]configEntry{}
	for _, e := range configEntries(cfg) {
		byKey[e.Key] = e
	}
	assert.Equal(t, configEntry{Key: "editorPort", Value: "8080", Source: config.SourceDefault}, byKey["editorPort"])
	assert.Equal(t, "********", byKey["auth.jwtSecret"].Value)
	assert.Equal(t, config.SourceFlag, byKey["auth.jwtSecret"].Source)
}

func TestFormatError(t *testing.T) {
	saved := displayLang
	t.Cleanup(func() { displayLang = saved })
	displayLang = "en"

	verr := &definition.ValidationError{Problems: []definition.Problem{
		{Field: "endpoints[0].path", Message: "path must start with /"},
		{Field: "endpoints[0].method", Message: "method is required"},
	}}
	out := formatError(verr)
	assert.Contains(t, out, "Error: 2 validation errors")
	assert.Contains(t, out, "\n  • endpoints[0].method: method is required")

	out = formatError(fmt.Errorf("decode: %w", envelope.ErrNotAnEnvelope))
	assert.Equal(t, "Error: Not an APIResponse shape.", out)

	out = formatError(&net.OpError{Op: "dial", Err: errors.New("connection refused")})
	assert.Contains(t, out, "ourohead serve")
}

func TestDisplayTag(t *testing.T) {
	saved := displayLang
	t.Cleanup(func() { displayLang = saved })

	displayLang = "en_US.UTF-8"
	assert.Equal(t, language.MustParse("en-US"), displayTag())
	displayLang = "ko"
	assert.Equal(t, language.Korean, displayTag())
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	src := &fileSource{path: path, gen: nil}
	ctx := context.Background()

	def, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, def.Endpoints)

	def.Add(definition.Endpoint{Path: "nope", Method: "GET"})
	_, err = src.Save(ctx, def)
	assert.ErrorIs(t, err, definition.ErrInvalidDefinition)
	assert.NoFileExists(t, path)

	def.Endpoints[0].Path = "/ok"
	msg, err := src.Save(ctx, def)
	require.NoError(t, err)
	assert.Contains(t, msg, path)

	res, err := src.Preview(ctx, &def.Endpoints[0])
	require.NoError(t, err)
	assert.Equal(t, editor.MsgNoResponse, res.Message)
	assert.Nil(t, res.Data)
}

func TestApp_ServesEditorAndMocks(t *testing.T) {
	cfg := config.Default()
	cfg.EditorPort = 0
	cfg.MockPort = 0
	cfg.Store.Backend = config.BackendMemory
	cfg.Seed = 7

	ctx := context.Background()
	a, err := newApp(ctx, cfg, logging.Nop())
	require.NoError(t, err)
	require.NoError(t, a.start())
	t.Cleanup(func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		assert.NoError(t, a.shutdown(sctx))
	})

	c := client.New(localURL(t, a.editor.Addr())+cfg.BasePath, client.WithTimeout(5*time.Second))
	h, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, Version, h.Version)

	report, err := versionReport(ctx, c.BaseURL())
	require.NoError(t, err)
	require.NotNil(t, report.Editor)
	assert.Equal(t, Version, report.Editor.Version)
	assert.True(t, report.Editor.Matches)

	def := &definition.APIDefinition{Endpoints: []definition.Endpoint{{
		Path:   "/hello",
		Method: "GET",
		Responses: []definition.StatusResponse{{StatusCode: 200, Response: &definition.ResponseSchema{
			Type:   definition.FieldObject,
			Fields: []definition.Field{{Name: "greeting", Type: "string", DefaultValue: strPtr("hi")}},
		}}},
	}}}
	_, err = c.SaveDefinition(ctx, def)
	require.NoError(t, err)

	resp, err := http.Get(localURL(t, a.mock.Addr()) + "/hello")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"greeting":"hi"}`, string(body))

	entries, err := c.Requests(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "/hello", entries[0].Path)
}

func localURL(t *testing.T, addr string) string {
	t.Helper()
	_, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	return "http://127.0.0.1:" + port
}

func TestBuildVersion(t *testing.T) {
	r := buildVersion()
	assert.NotEmpty(t, r.Version)
	assert.NotEmpty(t, r.Commit)
	assert.Contains(t, r.Platform, "go")
	assert.Nil(t, r.Editor)

	assert.Equal(t, "v1.2.0", displayVersion("1.2.0"))
	assert.Equal(t, "v1.2.0", displayVersion("v1.2.0"))
	assert.Equal(t, "dev", displayVersion("dev"))
}
