package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by ApplyEnv.
const (
	EnvEditorPort   = "OUROHEAD_EDITOR_PORT"
	EnvMockPort     = "OUROHEAD_MOCK_PORT"
	EnvBasePath     = "OUROHEAD_BASE_PATH"
	EnvReadTimeout  = "OUROHEAD_READ_TIMEOUT"
	EnvWriteTimeout = "OUROHEAD_WRITE_TIMEOUT"
	EnvSeed         = "OUROHEAD_SEED"
	EnvStoreBackend = "OUROHEAD_STORE_BACKEND"
	EnvStorePath    = "OUROHEAD_STORE_PATH"
	EnvLogLevel     = "OUROHEAD_LOG_LEVEL"
	EnvLogFormat    = "OUROHEAD_LOG_FORMAT"
	EnvLogFile      = "OUROHEAD_LOG_FILE"
	EnvCORSOrigins  = "OUROHEAD_CORS_ORIGINS"
	EnvJWTSecret    = "OUROHEAD_JWT_SECRET"
	EnvConfig       = "OUROHEAD_CONFIG"
	EnvEditorURL    = "OUROHEAD_EDITOR_URL"
)

// ApplyEnv overrides cfg from OUROHEAD_* variables. Malformed numbers are
// reported instead of silently ignored.
func ApplyEnv(cfg *Config) error {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	ints := []struct {
		env string
		key string
		dst *int
	}{
		{EnvEditorPort, "editorPort", &cfg.EditorPort},
		{EnvMockPort, "mockPort", &cfg.MockPort},
		{EnvReadTimeout, "readTimeout", &cfg.ReadTimeout},
		{EnvWriteTimeout, "writeTimeout", &cfg.WriteTimeout},
	}
	for _, it := range ints {
		v := os.Getenv(it.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", it.env, v)
		}
		*it.dst = n
		cfg.Sources[it.key] = SourceEnv
	}

	if v := os.Getenv(EnvSeed); v != "" {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", EnvSeed, v)
		}
		cfg.Seed = n
		cfg.Sources["seed"] = SourceEnv
	}

	strs := []struct {
		env string
		key string
		dst *string
	}{
		{EnvBasePath, "basePath", &cfg.BasePath},
		{EnvStoreBackend, "store.backend", &cfg.Store.Backend},
		{EnvStorePath, "store.path", &cfg.Store.Path},
		{EnvLogLevel, "log.level", &cfg.Log.Level},
		{EnvLogFormat, "log.format", &cfg.Log.Format},
		{EnvLogFile, "log.file", &cfg.Log.File},
		{EnvJWTSecret, "auth.jwtSecret", &cfg.Auth.JWTSecret},
	}
	for _, it := range strs {
		if v := os.Getenv(it.env); v != "" {
			*it.dst = v
			cfg.Sources[it.key] = SourceEnv
		}
	}

	if v := os.Getenv(EnvCORSOrigins); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORS.AllowedOrigins = origins
		cfg.Sources["cors.allowedOrigins"] = SourceEnv
	}
	return nil
}
