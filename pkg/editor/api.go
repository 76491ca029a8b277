package editor

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ourohead/ourohead/pkg/config"
	"github.com/ourohead/ourohead/pkg/definition"
	"github.com/ourohead/ourohead/pkg/engine"
	"github.com/ourohead/ourohead/pkg/httputil"
	"github.com/ourohead/ourohead/pkg/logging"
	"github.com/ourohead/ourohead/pkg/mockdata"
	"github.com/ourohead/ourohead/pkg/store"
)

// Reloader applies a saved definition to the running mock engine.
type Reloader interface {
	Reload(def *definition.APIDefinition) error
}

// API is the editor HTTP API.
type API struct {
	store    store.Store
	engine   Reloader
	requests *engine.RequestLog
	gen      *mockdata.Generator
	log      *slog.Logger

	basePath string
	origins  []string
	assets   fs.FS
	version  string
	started  time.Time

	events *eventHub
}

// Option configures an API.
type Option func(*API)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *API) {
		if log != nil {
			a.log = log
		}
	}
}

// WithEngine reloads r after every successful save.
func WithEngine(r Reloader) Option {
	return func(a *API) {
		a.engine = r
	}
}

// WithRequestLog exposes the mock engine's request log.
func WithRequestLog(l *engine.RequestLog) Option {
	return func(a *API) {
		a.requests = l
	}
}

// WithGenerator sets the preview data generator.
func WithGenerator(gen *mockdata.Generator) Option {
	return func(a *API) {
		if gen != nil {
			a.gen = gen
		}
	}
}

// WithBasePath mounts the API under p instead of /ourohead.
func WithBasePath(p string) Option {
	return func(a *API) {
		a.basePath = config.NormalizeBasePath(p)
	}
}

// WithCORS sets the allowed origins. Empty allows any origin.
func WithCORS(origins []string) Option {
	return func(a *API) {
		a.origins = origins
	}
}

// WithAssets replaces the embedded static assets.
func WithAssets(assets fs.FS) Option {
	return func(a *API) {
		if assets != nil {
			a.assets = assets
		}
	}
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(v string) Option {
	return func(a *API) {
		a.version = v
	}
}

// New creates the editor API over st and subscribes to its changes.
func New(st store.Store, opts ...Option) *API {
	a := &API{
		store:    st,
		gen:      mockdata.New(),
		log:      logging.Nop(),
		basePath: config.DefaultBasePath,
		assets:   defaultAssets(),
		version:  "dev",
		started:  time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.events = newEventHub(a.log)
	st.AddChangeListener(a.events.publish)
	return a
}

// BasePath returns the mount point.
func (a *API) BasePath() string {
	return a.basePath
}

// Handler returns the routed API wrapped in its middleware.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	a.registerRoutes(mux)
	return httputil.Chain(mux,
		httputil.RequestID,
		httputil.AccessLog(a.log),
		httputil.SecurityHeaders,
		httputil.CORS(a.origins),
	)
}

// Close disconnects event subscribers.
func (a *API) Close() {
	a.events.close()
}

func (a *API) registerRoutes(mux *http.ServeMux) {
	base := a.basePath
	api := base + "/api"

	mux.HandleFunc("GET "+api+"/health", a.handleHealth)
	mux.HandleFunc("GET "+api+"/definition", a.handleGetDefinition)
	mux.HandleFunc("POST "+api+"/definition", a.handleSaveDefinition)
	mux.HandleFunc("POST "+api+"/preview", a.handlePreview)
	mux.HandleFunc("GET "+api+"/status-templates", a.handleStatusTemplates)

	mux.HandleFunc("GET "+api+"/openapi.json", a.handleExportOpenAPI)
	mux.HandleFunc("GET "+api+"/openapi.yaml", a.handleExportOpenAPI)
	mux.HandleFunc("POST "+api+"/import/openapi", a.handleImportOpenAPI)

	mux.HandleFunc("GET "+api+"/requests", a.handleListRequests)
	mux.HandleFunc("DELETE "+api+"/requests", a.handleClearRequests)

	mux.HandleFunc("GET "+api+"/events", a.handleEvents)

	mux.HandleFunc(api+"/", a.handleNotFound)

	mux.HandleFunc("GET "+base+"/editor", a.handleEditorPage)
	mux.Handle(base+"/", a.staticHandler())
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, base+"/editor", http.StatusFound)
	})
}

func (a *API) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteFail(w, http.StatusNotFound, CodeNotFound, MsgNotFound)
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteSuccess(w, http.StatusOK, MsgHealthy, map[string]any{
		"status":  "healthy",
		"version": a.version,
		"uptime":  int(time.Since(a.started).Seconds()),
	})
}

// wantsYAML reports whether the request path or Accept header asks for YAML.
func wantsYAML(r *http.Request) bool {
	if strings.HasSuffix(r.URL.Path, ".yaml") || strings.HasSuffix(r.URL.Path, ".yml") {
		return true
	}
	return r.URL.Query().Get("format") == "yaml"
}
