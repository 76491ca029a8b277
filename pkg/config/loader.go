package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LocalConfigFileNames are searched in the working directory by LoadAll.
var LocalConfigFileNames = []string{"ourohead.yaml", "ourohead.yml", "ourohead.toml", "ourohead.json"}

// ErrUnsupportedFormat is returned for config files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// FileError reports a config file that could not be parsed.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *FileError) Unwrap() error { return e.Err }

// ParseFile decodes a config file without applying defaults.
func ParseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		err = fmt.Errorf("%w %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Load returns the defaults overlaid with the file at path.
func Load(path string) (*Config, error) {
	cfg := Default()
	file, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	Merge(cfg, file, SourceFile)
	return cfg, nil
}

// FindLocalConfig returns the first LocalConfigFileNames entry present in dir.
func FindLocalConfig(dir string) string {
	for _, name := range LocalConfigFileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadAll layers defaults, the config file and the environment. When path is
// empty the working directory is searched for a local config file.
func LoadAll(path string) (*Config, error) {
	if path == "" {
		if cwd, err := os.Getwd(); err == nil {
			path = FindLocalConfig(cwd)
		}
	}

	cfg := Default()
	if path != "" {
		file, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		Merge(cfg, file, SourceFile)
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge copies the non-zero values of src into dst and records source for
// every copied key.
func Merge(dst, src *Config, source string) {
	if src == nil {
		return
	}
	if dst.Sources == nil {
		dst.Sources = make(map[string]string)
	}
	set := func(key string) { dst.Sources[key] = source }

	if src.EditorPort != 0 {
		dst.EditorPort = src.EditorPort
		set("editorPort")
	}
	if src.MockPort != 0 {
		dst.MockPort = src.MockPort
		set("mockPort")
	}
	if src.BasePath != "" {
		dst.BasePath = src.BasePath
		set("basePath")
	}
	if src.ReadTimeout != 0 {
		dst.ReadTimeout = src.ReadTimeout
		set("readTimeout")
	}
	if src.WriteTimeout != 0 {
		dst.WriteTimeout = src.WriteTimeout
		set("writeTimeout")
	}
	if src.Seed != 0 {
		dst.Seed = src.Seed
		set("seed")
	}
	if src.Store.Backend != "" {
		dst.Store.Backend = src.Store.Backend
		set("store.backend")
	}
	if src.Store.Path != "" {
		dst.Store.Path = src.Store.Path
		set("store.path")
	}
	if src.Log.Level != "" {
		dst.Log.Level = src.Log.Level
		set("log.level")
	}
	if src.Log.Format != "" {
		dst.Log.Format = src.Log.Format
		set("log.format")
	}
	if src.Log.File != "" {
		dst.Log.File = src.Log.File
		set("log.file")
	}
	if len(src.CORS.AllowedOrigins) > 0 {
		dst.CORS.AllowedOrigins = append([]string(nil), src.CORS.AllowedOrigins...)
		set("cors.allowedOrigins")
	}
	if src.Auth.JWTSecret != "" {
		dst.Auth.JWTSecret = src.Auth.JWTSecret
		set("auth.jwtSecret")
	}
}
