package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ourohead/ourohead/pkg/definition"
	"github.com/ourohead/ourohead/pkg/editor"
	"github.com/ourohead/ourohead/pkg/engine"
	"github.com/ourohead/ourohead/pkg/envelope"
	"github.com/ourohead/ourohead/pkg/store"
)

func strPtr(s string) *string { return &s }

func newEditor(t *testing.T) (*Client, *store.MemoryStore, *engine.RequestLog) {
	t.Helper()
	st := store.NewMemoryStore(&definition.APIDefinition{Endpoints: []definition.Endpoint{
		{Path: "/ping", Method: "GET", Responses: []definition.StatusResponse{
			{StatusCode: 200, Response: &definition.ResponseSchema{Type: "object", Fields: []definition.Field{
				{Name: "pong", Type: "boolean", DefaultValue: strPtr("true")},
			}}},
		}},
	}})
	log := engine.NewRequestLog(10)
	api := editor.New(st, editor.WithRequestLog(log))
	t.Cleanup(api.Close)

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)
	return New(srv.URL+"/ourohead", WithTimeout(5*time.Second)), st, log
}

func TestClient_DefinitionRoundTrip(t *testing.T) {
	t.Parallel()
	c, st, _ := newEditor(t)
	ctx := context.Background()

	h, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)

	def, err := c.GetDefinition(ctx)
	require.NoError(t, err)
	require.Len(t, def.Endpoints, 1)

	def.Endpoints = append(def.Endpoints, definition.Endpoint{
		Path: "/items", Method: "delete", Responses: []definition.StatusResponse{{StatusCode: 204}},
	})
	msg, err := c.SaveDefinition(ctx, def)
	require.NoError(t, err)
	assert.Equal(t, editor.MsgDefinitionSaved, msg)

	stored, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, stored.Endpoints, 2)
	assert.Equal(t, "DELETE", stored.Endpoints[1].Method)
}

func TestClient_SaveValidationError(t *testing.T) {
	t.Parallel()
	c, _, _ := newEditor(t)

	_, err := c.SaveDefinition(context.Background(), &definition.APIDefinition{
		Endpoints: []definition.Endpoint{{Path: "nope", Method: "GET"}},
	})
	require.Error(t, err)

	re, ok := envelope.AsRemoteError(err)
	require.True(t, ok)
	assert.Equal(t, editor.CodeValidationError, re.Code)
	assert.Equal(t, envelope.KindRemoteError, envelope.Kind(err))

	problems, err := envelope.DecodeDetails[[]definition.Problem](re)
	require.NoError(t, err)
	assert.NotEmpty(t, problems)
}

func TestClient_Preview(t *testing.T) {
	t.Parallel()
	c, _, _ := newEditor(t)
	ctx := context.Background()

	def, err := c.GetDefinition(ctx)
	require.NoError(t, err)

	res, err := c.Preview(ctx, &def.Endpoints[0])
	require.NoError(t, err)
	assert.Equal(t, editor.MsgPreviewGenerated, res.Message)
	assert.JSONEq(t, `{"pong":true}`, string(res.Data))

	res, err = c.Preview(ctx, &definition.Endpoint{Path: "/x", Method: "GET"})
	require.NoError(t, err)
	assert.Equal(t, editor.MsgNoResponse, res.Message)
	assert.Nil(t, res.Data)
}

func TestClient_StatusTemplates(t *testing.T) {
	t.Parallel()
	c, _, _ := newEditor(t)

	offered, err := c.StatusTemplates(context.Background(), false)
	require.NoError(t, err)
	all, err := c.StatusTemplates(context.Background(), true)
	require.NoError(t, err)
	assert.Less(t, len(offered), len(all))
}

func TestClient_OpenAPI(t *testing.T) {
	t.Parallel()
	c, st, _ := newEditor(t)
	ctx := context.Background()

	doc, err := c.ExportOpenAPI(ctx, true)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "/ping")

	res, err := c.ImportOpenAPI(ctx, doc, true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.EndpointCount)
	assert.Equal(t, 1, res.Total)

	stored, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/ping", stored.Endpoints[0].Path)

	_, err = c.ImportOpenAPI(ctx, []byte("{}"), false)
	re, ok := envelope.AsRemoteError(err)
	require.True(t, ok)
	assert.Equal(t, editor.CodeImportError, re.Code)
}

func TestClient_Requests(t *testing.T) {
	t.Parallel()
	c, _, log := newEditor(t)
	log.Add(engine.RequestEntry{Method: "GET", Path: "/ping", Status: 200})

	entries, err := c.Requests(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/ping", entries[0].Path)
}

func TestClient_ProtocolErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want error
	}{
		{"not json", "<html>bad gateway</html>", envelope.ErrMalformedResponse},
		{"not an envelope", `{"foo":"bar"}`, envelope.ErrNotAnEnvelope},
		{"success without data", `{"status":"success","message":"ok"}`, envelope.ErrMissingSuccessData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).GetDefinition(context.Background())
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, WithTimeout(time.Second)).GetDefinition(context.Background())
	require.Error(t, err)
	assert.Empty(t, envelope.Kind(err))
}

func TestNew_Defaults(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New("").BaseURL())
	assert.Equal(t, "http://x/ourohead", New("http://x/ourohead/").BaseURL())
}
