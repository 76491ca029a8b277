package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ourohead/ourohead/pkg/config"
	"github.com/ourohead/ourohead/pkg/editor"
	"github.com/ourohead/ourohead/pkg/engine"
	"github.com/ourohead/ourohead/pkg/httputil"
	"github.com/ourohead/ourohead/pkg/logging"
	"github.com/ourohead/ourohead/pkg/mockdata"
	"github.com/ourohead/ourohead/pkg/store"
	"github.com/ourohead/ourohead/pkg/store/backend"
)

const shutdownTimeout = 10 * time.Second

var (
	serveEditorPort   int
	serveMockPort     int
	serveBasePath     string
	serveStoreBackend string
	serveStorePath    string
	serveSeed         uint64
	serveLogLevel     string
	serveLogFormat    string
	serveJWTSecret    string
	serveCORSOrigins  []string
	serveRequestLog   int
	serveReadOnly     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the editor and the mock server",
	Long: `Run the editor API and page, and the mock server answering the
endpoints of the definition. Saving in the editor reloads the mock server.

Examples:
  # Defaults: editor on :8080/ourohead, mocks on :4280
  ourohead serve

  # Serve a definition file and keep edits in it
  ourohead serve --file api.json

  # SQLite storage, deterministic data
  ourohead serve --store sqlite --seed 42`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := serveConfig(cmd)
		if err != nil {
			return err
		}

		log, closeLog, err := logging.New(cfg.LoggingConfig())
		if err != nil {
			return err
		}
		defer func() { _ = closeLog() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		if err := a.start(); err != nil {
			_ = a.shutdown(context.Background())
			return err
		}

		fmt.Printf("Editor:   %s%s/editor\n", cfg.EditorURL(), cfg.BasePath)
		fmt.Printf("Mock API: http://localhost:%d\n", cfg.MockPort)

		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f := serveCmd.Flags()
	f.IntVar(&serveEditorPort, "editor-port", config.DefaultEditorPort, "Editor API port")
	f.IntVar(&serveMockPort, "mock-port", config.DefaultMockPort, "Mock server port")
	f.StringVar(&serveBasePath, "base-path", config.DefaultBasePath, "Editor mount path")
	f.StringVar(&serveStoreBackend, "store", config.DefaultStoreBackend, "Store backend: file, sqlite, memory")
	f.StringVar(&serveStorePath, "store-path", "", "Definition file or database path")
	f.Uint64Var(&serveSeed, "seed", 0, "Seed for deterministic mock data")
	f.StringVar(&serveLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	f.StringVar(&serveLogFormat, "log-format", "text", "Log format: text, json")
	f.StringVar(&serveJWTSecret, "jwt-secret", "", "HS256 secret for verifying bearer tokens")
	f.StringSliceVar(&serveCORSOrigins, "cors-origin", nil, "Allowed CORS origins (repeatable)")
	f.IntVar(&serveRequestLog, "request-log", engine.DefaultRequestLogSize, "Number of mock requests to keep")
	f.BoolVar(&serveReadOnly, "read-only", false, "Reject saves")
}

// serveConfig layers defaults, the config file, the environment and the
// flags that were set explicitly.
func serveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadAll(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	override := func(flag, key string, apply func(*config.Config)) {
		if flags.Changed(flag) {
			cfg.Set(key, apply)
		}
	}
	override("editor-port", "editorPort", func(c *config.Config) { c.EditorPort = serveEditorPort })
	override("mock-port", "mockPort", func(c *config.Config) { c.MockPort = serveMockPort })
	override("base-path", "basePath", func(c *config.Config) { c.BasePath = config.NormalizeBasePath(serveBasePath) })
	override("store", "store.backend", func(c *config.Config) { c.Store.Backend = serveStoreBackend })
	override("store-path", "store.path", func(c *config.Config) { c.Store.Path = serveStorePath })
	override("seed", "seed", func(c *config.Config) { c.Seed = serveSeed })
	override("log-level", "log.level", func(c *config.Config) { c.Log.Level = serveLogLevel })
	override("log-format", "log.format", func(c *config.Config) { c.Log.Format = serveLogFormat })
	override("jwt-secret", "auth.jwtSecret", func(c *config.Config) { c.Auth.JWTSecret = serveJWTSecret })
	override("cors-origin", "cors.allowedOrigins", func(c *config.Config) { c.CORS.AllowedOrigins = serveCORSOrigins })

	// --file serves that definition file.
	if definitionFile != "" {
		cfg.Set("store.backend", func(c *config.Config) { c.Store.Backend = config.BackendFile })
		cfg.Set("store.path", func(c *config.Config) { c.Store.Path = definitionFile })
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app is a running editor and mock server pair.
type app struct {
	log    *slog.Logger
	store  store.Store
	api    *editor.API
	engine *engine.Handler
	editor *httputil.Server
	mock   *httputil.Server
}

func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	st, err := backend.Open(ctx, store.Config{
		Backend:  store.Backend(cfg.Store.Backend),
		Path:     cfg.Store.Path,
		DataDir:  config.DataDir(),
		ReadOnly: serveReadOnly,
		Logger:   log,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	def, err := st.Load(ctx)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("load definition: %w", err)
	}

	var genOpts []mockdata.Option
	if cfg.Seed != 0 {
		genOpts = append(genOpts, mockdata.WithSeed(cfg.Seed))
	}
	gen := mockdata.New(genOpts...)
	requests := engine.NewRequestLog(serveRequestLog)

	eng, err := engine.NewHandler(def,
		engine.WithLogger(log.With("component", "engine")),
		engine.WithJWTSecret(cfg.Auth.JWTSecret),
		engine.WithGenerator(gen),
		engine.WithRequestLog(requests),
	)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("load endpoints: %w", err)
	}

	api := editor.New(st,
		editor.WithLogger(log.With("component", "editor")),
		editor.WithEngine(eng),
		editor.WithRequestLog(requests),
		editor.WithGenerator(gen),
		editor.WithBasePath(cfg.BasePath),
		editor.WithCORS(cfg.CORS.AllowedOrigins),
		editor.WithVersion(Version),
	)

	timeouts := httputil.WithTimeouts(cfg.ReadTimeoutDuration(), cfg.WriteTimeoutDuration())
	return &app{
		log:    log,
		store:  st,
		api:    api,
		engine: eng,
		editor: httputil.NewServer("editor", cfg.EditorAddr(), api.Handler(), httputil.WithServerLogger(log), timeouts),
		mock:   httputil.NewServer("mock", cfg.MockAddr(), eng, httputil.WithServerLogger(log), timeouts),
	}, nil
}

func (a *app) start() error {
	if err := a.mock.Start(); err != nil {
		return err
	}
	return a.editor.Start()
}

// shutdown stops both servers and closes the store, returning every error.
func (a *app) shutdown(ctx context.Context) error {
	a.api.Close()
	return errors.Join(
		a.editor.Stop(ctx),
		a.mock.Stop(ctx),
		a.store.Close(),
	)
}
