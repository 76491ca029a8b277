package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ourohead/ourohead/pkg/logging"
)

// Defaults.
const (
	DefaultEditorPort   = 8080
	DefaultMockPort     = 4280
	DefaultBasePath     = "/ourohead"
	DefaultReadTimeout  = 30
	DefaultWriteTimeout = 30
	DefaultStoreBackend = "file"
	DefaultDirName      = "ourohead"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config sources.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Config is the complete ourohead configuration.
type Config struct {
	EditorPort   int    `json:"editorPort" yaml:"editorPort" toml:"editorPort"`
	MockPort     int    `json:"mockPort" yaml:"mockPort" toml:"mockPort"`
	BasePath     string `json:"basePath" yaml:"basePath" toml:"basePath"`
	ReadTimeout  int    `json:"readTimeout" yaml:"readTimeout" toml:"readTimeout"`
	WriteTimeout int    `json:"writeTimeout" yaml:"writeTimeout" toml:"writeTimeout"`

	// Seed makes generated mock data deterministic when non-zero.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty" toml:"seed,omitempty"`

	Store StoreConfig `json:"store" yaml:"store" toml:"store"`
	Log   LogConfig   `json:"log" yaml:"log" toml:"log"`
	CORS  CORSConfig  `json:"cors" yaml:"cors" toml:"cors"`
	Auth  AuthConfig  `json:"auth" yaml:"auth" toml:"auth"`

	// Sources maps each key to the layer that set it.
	Sources map[string]string `json:"-" yaml:"-" toml:"-"`
}

// StoreConfig selects where the API definition is persisted.
type StoreConfig struct {
	Backend string `json:"backend" yaml:"backend" toml:"backend"`
	// Path is the definition file for the file backend and the database
	// file for sqlite. Empty means the XDG data directory.
	Path string `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" toml:"level"`
	Format string `json:"format" yaml:"format" toml:"format"`
	File   string `json:"file,omitempty" yaml:"file,omitempty" toml:"file,omitempty"`
}

// CORSConfig lists origins allowed to call the editor API.
type CORSConfig struct {
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty" toml:"allowedOrigins,omitempty"`
}

// AuthConfig configures auth checks performed by the mock engine.
type AuthConfig struct {
	// JWTSecret verifies HS256 bearer tokens. Empty means presence-only.
	JWTSecret string `json:"jwtSecret,omitempty" yaml:"jwtSecret,omitempty" toml:"jwtSecret,omitempty"`
}

// Default returns a Config holding the defaults.
func Default() *Config {
	cfg := &Config{
		EditorPort:   DefaultEditorPort,
		MockPort:     DefaultMockPort,
		BasePath:     DefaultBasePath,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		Store:        StoreConfig{Backend: DefaultStoreBackend},
		Log:          LogConfig{Level: "info", Format: "text"},
		Sources:      make(map[string]string),
	}
	for _, key := range []string{
		"editorPort", "mockPort", "basePath", "readTimeout", "writeTimeout",
		"store.backend", "log.level", "log.format",
	} {
		cfg.Sources[key] = SourceDefault
	}
	return cfg
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c *Config) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (c *Config) WriteTimeoutDuration() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}

// EditorAddr is the listen address of the editor API.
func (c *Config) EditorAddr() string {
	return fmt.Sprintf(":%d", c.EditorPort)
}

// MockAddr is the listen address of the mock engine.
func (c *Config) MockAddr() string {
	return fmt.Sprintf(":%d", c.MockPort)
}

// EditorURL is the local URL the CLI uses to reach the editor API.
func (c *Config) EditorURL() string {
	return fmt.Sprintf("http://localhost:%d", c.EditorPort)
}

// LoggingConfig converts the log section for pkg/logging.
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{
		Level:  logging.ParseLevel(c.Log.Level),
		Format: logging.ParseFormat(c.Log.Format),
		Output: os.Stderr,
		File:   c.Log.File,
	}
}

// Set records a flag override for key.
func (c *Config) Set(key string, apply func(*Config)) {
	apply(c)
	if c.Sources == nil {
		c.Sources = make(map[string]string)
	}
	c.Sources[key] = SourceFlag
}

// DataDir returns the data directory: $XDG_DATA_HOME/ourohead or
// ~/.local/share/ourohead.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, DefaultDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+DefaultDirName)
	}
	return filepath.Join(home, ".local", "share", DefaultDirName)
}

// NormalizeBasePath returns p with one leading slash and no trailing slash.
func NormalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
