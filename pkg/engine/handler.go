package engine

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ourohead/ourohead/internal/matching"
	"github.com/ourohead/ourohead/pkg/condition"
	"github.com/ourohead/ourohead/pkg/definition"
	"github.com/ourohead/ourohead/pkg/logging"
	"github.com/ourohead/ourohead/pkg/mockdata"
	"github.com/ourohead/ourohead/pkg/statustemplate"
)

// MaxRequestBodySize bounds request bodies read for validation and
// conditions.
const MaxRequestBodySize = 10 << 20

// Engine-level paths and headers.
const (
	HealthPath       = "/__ourohead/health"
	MockStatusHeader = "X-Mock-Status"
	MatchedHeader    = "X-Ourohead-Endpoint"
)

// Handler serves the endpoints of the current definition.
type Handler struct {
	routes     atomic.Pointer[routeTable]
	conditions *condition.Cache
	gen        *mockdata.Generator
	jwtSecret  []byte
	requests   *RequestLog
	log        *slog.Logger
	loadedAt   atomic.Int64
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// WithJWTSecret enables HS256 verification of bearer tokens.
func WithJWTSecret(secret string) Option {
	return func(h *Handler) {
		h.jwtSecret = []byte(secret)
	}
}

// WithGenerator sets the dummy data generator.
func WithGenerator(gen *mockdata.Generator) Option {
	return func(h *Handler) {
		if gen != nil {
			h.gen = gen
		}
	}
}

// WithRequestLog sets where served requests are recorded.
func WithRequestLog(l *RequestLog) Option {
	return func(h *Handler) {
		h.requests = l
	}
}

// NewHandler creates a handler serving def. A nil def serves nothing.
func NewHandler(def *definition.APIDefinition, opts ...Option) (*Handler, error) {
	h := &Handler{
		conditions: condition.NewCache(),
		gen:        mockdata.New(),
		requests:   NewRequestLog(DefaultRequestLogSize),
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if err := h.Reload(def); err != nil {
		return nil, err
	}
	return h, nil
}

// Reload replaces the served endpoints. On error the previous endpoints stay
// in place.
func (h *Handler) Reload(def *definition.APIDefinition) error {
	table, err := buildRoutes(def)
	if err != nil {
		return err
	}
	h.routes.Store(table)
	h.loadedAt.Store(time.Now().UnixMilli())
	h.log.Info("endpoints reloaded", "count", len(table.routes))
	return nil
}

// Definition returns a copy of the served definition.
func (h *Handler) Definition() *definition.APIDefinition {
	return h.routes.Load().def.Clone()
}

// Routes lists the served method and path patterns.
func (h *Handler) Routes() []matching.Route {
	return h.routes.Load().matchingRoutes()
}

// Requests returns the request log.
func (h *Handler) Requests() *RequestLog {
	return h.requests
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.URL.Path == HealthPath {
		h.handleHealth(w, r)
		return
	}

	table := h.routes.Load()
	entry := RequestEntry{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
	defer func() {
		entry.DurationMs = time.Since(start).Milliseconds()
		if h.requests != nil {
			h.requests.Add(entry)
		}
	}()

	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.log.Warn("request body too large", "path", r.URL.Path, "limit", MaxRequestBodySize)
			entry.Status = h.writeTemplate(w, r, http.StatusRequestEntityTooLarge, nil)
			return
		}
		h.log.Warn("failed to read request body", "path", r.URL.Path, "error", err)
	}

	rt, params := table.lookup(r)
	if rt == nil {
		routes := table.matchingRoutes()
		if allowed := matching.AllowedMethods(routes, r.URL.Path); len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
		}
		entry.NearMisses = matching.NearMisses(routes, r.Method, r.URL.Path)
		h.log.Debug("no endpoint matched", "method", r.Method, "path", r.URL.Path, "nearMisses", len(entry.NearMisses))
		entry.Status = h.writeTemplate(w, r, http.StatusNotFound, nil)
		return
	}

	ep := &rt.endpoint
	entry.Endpoint = ep.Key()
	w.Header().Set(MatchedHeader, ep.Key())

	if err := h.authenticate(r, ep); err != nil {
		h.log.Debug("auth rejected", "endpoint", ep.Key(), "error", err)
		if c := challenge(ep); c != "" {
			w.Header().Set("WWW-Authenticate", c)
		}
		entry.Status = h.writeTemplate(w, r, http.StatusUnauthorized, nil)
		return
	}

	parsed, problems := h.checkRequest(r, rt, body)
	if len(problems) > 0 {
		entry.Status = h.writeTemplate(w, r, http.StatusBadRequest, problems)
		return
	}

	resp := h.selectResponse(r, ep, params, parsed)
	if resp == nil {
		entry.Status = http.StatusNoContent
		w.WriteHeader(http.StatusNoContent)
		return
	}
	entry.Status = h.writeGenerated(w, r, resp.StatusCode, resp.Response, nil)
}

// checkRequest decodes the body for conditions and validates it against the
// endpoint's request fields.
func (h *Handler) checkRequest(r *http.Request, rt *route, body []byte) (any, []FieldError) {
	req := rt.endpoint.Request
	contentType := r.Header.Get("Content-Type")
	if req != nil && req.ContentType != "" && contentType == "" {
		contentType = req.ContentType
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		if req != nil && hasRequired(req.Fields) {
			return nil, []FieldError{{Message: "request body is required"}}
		}
		return nil, nil
	}

	if mockdata.IsXML(contentType) {
		doc, err := mockdata.DecodeXML(body)
		if err != nil {
			if rt.schema != nil {
				return nil, []FieldError{{Message: "invalid XML body"}}
			}
			return nil, nil
		}
		if req != nil {
			return doc, missingRequired(req.Fields, doc)
		}
		return doc, nil
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		if rt.schema != nil {
			return nil, []FieldError{{Message: "invalid JSON body"}}
		}
		return nil, nil
	}
	if rt.schema != nil {
		return parsed, validateBody(rt.schema, parsed)
	}
	return parsed, nil
}

func hasRequired(fields []definition.Field) bool {
	for _, f := range fields {
		if f.Required {
			return true
		}
	}
	return false
}

// selectResponse applies X-Mock-Status, then "when" conditions in order,
// then the endpoint's preview response.
func (h *Handler) selectResponse(r *http.Request, ep *definition.Endpoint, params map[string]string, body any) *definition.StatusResponse {
	if code, ok := forcedStatus(r); ok {
		if resp := ep.ResponseFor(code); resp != nil {
			return resp
		}
		resp := statustemplate.StatusResponse(code)
		return &resp
	}

	var env *condition.Env
	for i := range ep.Responses {
		resp := &ep.Responses[i]
		if resp.When == "" {
			continue
		}
		if env == nil {
			env = requestEnv(r, params, body)
		}
		ok, err := h.conditions.Eval(resp.When, *env)
		if err != nil {
			h.log.Warn("condition failed", "endpoint", ep.Key(), "when", resp.When, "error", err)
			continue
		}
		if ok {
			return resp
		}
	}
	return ep.PreviewResponse()
}

// forcedStatus reads a valid status code from X-Mock-Status.
func forcedStatus(r *http.Request) (int, bool) {
	v := strings.TrimSpace(r.Header.Get(MockStatusHeader))
	if v == "" {
		return 0, false
	}
	code, err := strconv.Atoi(v)
	if err != nil || code < 100 || code > 599 {
		return 0, false
	}
	return code, true
}

func requestEnv(r *http.Request, params map[string]string, body any) *condition.Env {
	query := make(map[string]string, len(r.URL.Query()))
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}
	headers := make(map[string]string, len(r.Header))
	for k, v := range r.Header {
		if len(v) > 0 {
			headers[strings.ToLower(k)] = v[0]
		}
	}
	if params == nil {
		params = map[string]string{}
	}
	return &condition.Env{
		Method:  r.Method,
		Path:    r.URL.Path,
		Query:   query,
		Headers: headers,
		Params:  params,
		Body:    body,
	}
}

// writeTemplate answers with the status template for code. Non-empty
// problems are attached as "details".
func (h *Handler) writeTemplate(w http.ResponseWriter, r *http.Request, code int, problems []FieldError) int {
	tpl := statustemplate.Get(code)
	return h.writeGenerated(w, r, code, &tpl.Response, problems)
}

// writeGenerated generates schema and writes it. Generator failures fall
// back to the 500 template.
func (h *Handler) writeGenerated(w http.ResponseWriter, r *http.Request, code int, schema *definition.ResponseSchema, problems []FieldError) int {
	if schema == nil {
		w.WriteHeader(code)
		return code
	}
	data, err := h.gen.Generate(schema)
	if err != nil {
		h.log.Error("failed to generate response", "path", r.URL.Path, "status", code, "error", err)
		if code == http.StatusInternalServerError {
			http.Error(w, http.StatusText(code), code)
			return code
		}
		return h.writeTemplate(w, r, http.StatusInternalServerError, nil)
	}
	if len(problems) > 0 {
		if obj, ok := data.(map[string]any); ok {
			obj["details"] = problems
		}
	}

	contentType := schema.ContentType
	if contentType == "" {
		contentType = "application/json"
	}

	var payload []byte
	if mockdata.IsXML(contentType) {
		payload, err = mockdata.RenderXML(toPlain(data), mockdata.DefaultXMLRoot)
	} else {
		payload, err = json.Marshal(data)
	}
	if err != nil {
		h.log.Error("failed to encode response", "path", r.URL.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", contentType)
	if r.Method != http.MethodHead {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	}
	w.WriteHeader(code)
	if r.Method != http.MethodHead {
		_, _ = w.Write(payload)
	}
	return code
}

// toPlain round-trips typed values such as []FieldError through JSON so
// the XML renderer sees only maps, slices and scalars.
func toPlain(v any) any {
	obj, ok := v.(map[string]any)
	if !ok {
		return v
	}
	if _, has := obj["details"]; !has {
		return v
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	table := h.routes.Load()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "healthy",
		"endpoints": len(table.routes),
		"loadedAt":  time.UnixMilli(h.loadedAt.Load()).UTC().Format(time.RFC3339),
	})
}
