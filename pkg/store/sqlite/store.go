// Package sqlite stores the API definition in an embedded SQLite database.
// Every save bumps a revision and appends a history row.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/ourohead/ourohead/pkg/definition"
	"github.com/ourohead/ourohead/pkg/logging"
	"github.com/ourohead/ourohead/pkg/store"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// DefaultFileName is used inside the data directory when no path is set.
const DefaultFileName = "ourohead.db"

// Store is a SQLite-backed store.Store.
type Store struct {
	store.Notifier

	db       *sqlx.DB
	path     string
	readOnly bool
	log      *slog.Logger

	mu     sync.Mutex
	closed bool
}

var _ store.Store = (*Store)(nil)

// Revision is one saved version of the definition.
type Revision struct {
	Revision  int64     `db:"revision" json:"revision"`
	Endpoints int       `db:"endpoints" json:"endpoints"`
	SavedAt   time.Time `db:"saved_at" json:"savedAt"`
}

// Open connects to the database at cfg.Path (or DefaultFileName in
// cfg.DataDir) and applies pending migrations.
func Open(ctx context.Context, cfg store.Config) (*Store, error) {
	path := cfg.Path
	if path == "" {
		if cfg.DataDir == "" {
			return nil, errors.New("sqlite store: path or data dir is required")
		}
		path = filepath.Join(cfg.DataDir, DefaultFileName)
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create directory: %w", err)
		}
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("connecting to db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		db:       db,
		path:     path,
		readOnly: cfg.ReadOnly,
		log:      log.With("component", "store", "backend", "sqlite"),
	}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the latest definition or an empty one.
func (s *Store) Load(ctx context.Context) (*definition.APIDefinition, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	var body string
	err := s.db.GetContext(ctx, &body, `SELECT body FROM api_definition WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		def := &definition.APIDefinition{}
		def.Normalize()
		return def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading definition: %w", err)
	}

	var def definition.APIDefinition
	if err := json.Unmarshal([]byte(body), &def); err != nil {
		return nil, fmt.Errorf("decoding stored definition: %w", err)
	}
	def.Normalize()
	return &def, nil
}

// Save upserts the definition and records a history row in one transaction.
func (s *Store) Save(ctx context.Context, def *definition.APIDefinition) error {
	if def == nil {
		return store.ErrNilInput
	}
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.readOnly {
		return store.ErrReadOnly
	}

	saved := def.Clone()
	saved.Normalize()
	body, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("encoding definition: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO api_definition (id, body, revision, updated_at)
		VALUES (1, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			body = excluded.body,
			revision = api_definition.revision + 1,
			updated_at = CURRENT_TIMESTAMP`, string(body))
	if err != nil {
		return fmt.Errorf("saving definition: %w", err)
	}

	var revision int64
	if err := tx.GetContext(ctx, &revision, `SELECT revision FROM api_definition WHERE id = 1`); err != nil {
		return fmt.Errorf("reading revision: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO definition_history (revision, body, endpoints) VALUES (?, ?, ?)`,
		revision, string(body), len(saved.Endpoints))
	if err != nil {
		return fmt.Errorf("recording history: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.log.Debug("definition saved", "revision", revision, "endpoints", len(saved.Endpoints))
	s.Notify(store.OperationSave, saved)
	return nil
}

// History returns the most recent revisions, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]Revision, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	var revs []Revision
	err := s.db.SelectContext(ctx, &revs,
		`SELECT revision, endpoints, saved_at FROM definition_history ORDER BY revision DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	return revs, nil
}

// LoadRevision returns the definition saved as revision.
func (s *Store) LoadRevision(ctx context.Context, revision int64) (*definition.APIDefinition, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	var body string
	err := s.db.GetContext(ctx, &body, `SELECT body FROM definition_history WHERE revision = ? ORDER BY id DESC LIMIT 1`, revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("revision %d: %w", revision, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading revision %d: %w", revision, err)
	}
	var def definition.APIDefinition
	if err := json.Unmarshal([]byte(body), &def); err != nil {
		return nil, fmt.Errorf("decoding revision %d: %w", revision, err)
	}
	def.Normalize()
	return &def, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing db: %w", err)
	}
	return nil
}

func (s *Store) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	return nil
}
