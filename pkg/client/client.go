// Package client is a typed client for the editor API.
//
// Every response passes through envelope.ExtractData, so a failed call
// returns one of the envelope errors: *envelope.RemoteError for error
// envelopes, or ErrMalformedResponse, ErrNotAnEnvelope and
// ErrMissingSuccessData for responses that break the protocol.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ourohead/ourohead/pkg/definition"
	"github.com/ourohead/ourohead/pkg/editor"
	"github.com/ourohead/ourohead/pkg/engine"
	"github.com/ourohead/ourohead/pkg/envelope"
	"github.com/ourohead/ourohead/pkg/statustemplate"
)

// DefaultBaseURL is the editor API root of a local `ourohead serve`.
const DefaultBaseURL = "http://localhost:8080/ourohead"

// DefaultTimeout bounds each call.
const DefaultTimeout = 30 * time.Second

const maxResponseSize = 32 << 20

// Client calls the editor API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a client for the editor mounted at baseURL, for example
// http://localhost:8080/ourohead. Empty uses DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the editor root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HealthStatus is the editor's health report.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  int    `json:"uptime"`
}

// Health checks that the editor answers and returns its report.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	raw, err := c.call(ctx, http.MethodGet, "/api/health", nil, "")
	if err != nil {
		return nil, err
	}
	h, err := envelope.ExtractData[HealthStatus](raw)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// GetDefinition returns the stored definition.
func (c *Client) GetDefinition(ctx context.Context) (*definition.APIDefinition, error) {
	raw, err := c.call(ctx, http.MethodGet, "/api/definition", nil, "")
	if err != nil {
		return nil, err
	}
	def, err := envelope.ExtractData[*definition.APIDefinition](raw)
	if err != nil {
		return nil, err
	}
	if def == nil {
		def = &definition.APIDefinition{}
	}
	def.Normalize()
	return def, nil
}

// SaveDefinition replaces the stored definition and reloads the engine.
// It returns the server's message.
func (c *Client) SaveDefinition(ctx context.Context, def *definition.APIDefinition) (string, error) {
	raw, err := c.callJSON(ctx, http.MethodPost, "/api/definition", def)
	if err != nil {
		return "", err
	}
	if _, err := envelope.ExtractData[json.RawMessage](raw); err != nil {
		return "", err
	}
	return envelope.ExtractMessage(raw), nil
}

// PreviewResult is generated data for one endpoint. Data is nil when the
// endpoint has no response body to preview.
type PreviewResult struct {
	Message string
	Data    json.RawMessage
}

// Preview generates dummy data for ep.
func (c *Client) Preview(ctx context.Context, ep *definition.Endpoint) (*PreviewResult, error) {
	raw, err := c.callJSON(ctx, http.MethodPost, "/api/preview", ep)
	if err != nil {
		return nil, err
	}
	data, err := envelope.ExtractData[json.RawMessage](raw)
	if err != nil {
		return nil, err
	}
	res := &PreviewResult{Message: envelope.ExtractMessage(raw)}
	if string(bytes.TrimSpace(data)) != "null" {
		res.Data = data
	}
	return res, nil
}

// StatusTemplates returns the offered status templates; all includes the
// globally handled codes.
func (c *Client) StatusTemplates(ctx context.Context, all bool) ([]statustemplate.Template, error) {
	path := "/api/status-templates"
	if all {
		path += "?all=true"
	}
	raw, err := c.call(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	return envelope.ExtractData[[]statustemplate.Template](raw)
}

// ExportOpenAPI returns the OpenAPI document. Success bodies are the document
// itself; failures are error envelopes.
func (c *Client) ExportOpenAPI(ctx context.Context, asYAML bool) ([]byte, error) {
	path := "/api/openapi.json"
	if asYAML {
		path = "/api/openapi.yaml"
	}
	resp, raw, err := c.send(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_, err := envelope.ExtractData[json.RawMessage](raw)
		if err == nil {
			err = fmt.Errorf("export failed: status %d", resp.StatusCode)
		}
		return nil, err
	}
	return raw, nil
}

// ImportOpenAPI imports an OpenAPI document. Imported endpoints are merged
// into the stored definition, or replace it when replace is set.
func (c *Client) ImportOpenAPI(ctx context.Context, doc []byte, replace bool) (*editor.ImportResult, error) {
	path := "/api/import/openapi"
	if replace {
		path += "?mode=replace"
	}
	contentType := "application/json"
	if trimmed := bytes.TrimSpace(doc); len(trimmed) > 0 && trimmed[0] != '{' {
		contentType = "application/yaml"
	}
	raw, err := c.call(ctx, http.MethodPost, path, bytes.NewReader(doc), contentType)
	if err != nil {
		return nil, err
	}
	res, err := envelope.ExtractData[editor.ImportResult](raw)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Requests returns up to limit recent mock requests, newest first.
func (c *Client) Requests(ctx context.Context, limit int) ([]engine.RequestEntry, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/requests"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	raw, err := c.call(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	return envelope.ExtractData[[]engine.RequestEntry](raw)
}

func (c *Client) callJSON(ctx context.Context, method, path string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return c.call(ctx, method, path, bytes.NewReader(data), "application/json")
}

func (c *Client) call(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	_, raw, err := c.send(ctx, method, path, body, contentType)
	return raw, err
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}
	return resp, raw, nil
}
