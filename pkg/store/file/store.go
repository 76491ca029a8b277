// Package file stores the API definition as a JSON or YAML document.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ourohead/ourohead/pkg/definition"
	"github.com/ourohead/ourohead/pkg/logging"
	"github.com/ourohead/ourohead/pkg/store"
)

// DefaultFileName is used inside the data directory when no path is set.
const DefaultFileName = "definition.json"

// Format is the on-disk encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from the file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Store is a file-backed store.Store.
type Store struct {
	store.Notifier

	mu       sync.Mutex
	path     string
	format   Format
	readOnly bool
	closed   bool
	log      *slog.Logger
}

var _ store.Store = (*Store)(nil)

// New creates a file store for cfg.Path, or DefaultFileName in cfg.DataDir.
func New(cfg store.Config) (*Store, error) {
	path := cfg.Path
	if path == "" {
		if cfg.DataDir == "" {
			return nil, errors.New("file store: path or data dir is required")
		}
		path = filepath.Join(cfg.DataDir, DefaultFileName)
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		path:     path,
		format:   FormatFor(path),
		readOnly: cfg.ReadOnly,
		log:      log.With("component", "store", "backend", "file"),
	}, nil
}

// Path returns the definition file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the definition file. A missing file yields an empty definition.
func (s *Store) Load(ctx context.Context) (*definition.APIDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, store.ErrClosed
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			def := &definition.APIDefinition{}
			def.Normalize()
			return def, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	def, err := Decode(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return def, nil
}

// Save writes the definition atomically through a temporary file.
func (s *Store) Save(ctx context.Context, def *definition.APIDefinition) error {
	if def == nil {
		return store.ErrNilInput
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return store.ErrClosed
	}
	if s.readOnly {
		s.mu.Unlock()
		return store.ErrReadOnly
	}

	saved := def.Clone()
	saved.Normalize()
	data, err := Encode(saved, s.format)
	if err == nil {
		err = writeAtomic(s.path, data)
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.log.Debug("definition saved", "path", s.path, "endpoints", len(saved.Endpoints))
	s.Notify(store.OperationSave, saved)
	return nil
}

// Close stops accepting calls.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Encode serialises def in format.
func Encode(def *definition.APIDefinition, format Format) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(def)
	}
	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Decode parses def from format and normalises it.
func Decode(data []byte, format Format) (*definition.APIDefinition, error) {
	var def definition.APIDefinition
	var err error
	if format == FormatYAML {
		err = yaml.Unmarshal(data, &def)
	} else {
		err = json.Unmarshal(data, &def)
	}
	if err != nil {
		return nil, err
	}
	def.Normalize()
	return &def, nil
}

// ReadFile loads a definition document from path, picking the format from
// its extension.
func ReadFile(path string) (*definition.APIDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	def, err := Decode(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return def, nil
}

// WriteFile writes def to path atomically, picking the format from its
// extension.
func WriteFile(path string, def *definition.APIDefinition) error {
	data, err := Encode(def, FormatFor(path))
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}
