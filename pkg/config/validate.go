package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ourohead/ourohead/pkg/logging"
)

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.EditorPort < 1 || c.EditorPort > 65535 {
		return fmt.Errorf("editorPort %d is out of range (1-65535)", c.EditorPort)
	}
	if c.MockPort < 1 || c.MockPort > 65535 {
		return fmt.Errorf("mockPort %d is out of range (1-65535)", c.MockPort)
	}
	if c.EditorPort == c.MockPort {
		return errors.New("editorPort and mockPort cannot be the same")
	}
	if c.ReadTimeout < 0 || c.ReadTimeout > 3600 {
		return fmt.Errorf("readTimeout %d is out of range (0-3600)", c.ReadTimeout)
	}
	if c.WriteTimeout < 0 || c.WriteTimeout > 3600 {
		return fmt.Errorf("writeTimeout %d is out of range (0-3600)", c.WriteTimeout)
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("basePath %q must start with /", c.BasePath)
	}
	switch c.Store.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("store.backend %q is not one of file, sqlite, memory", c.Store.Backend)
	}
	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	if !logging.ValidFormat(c.Log.Format) {
		return fmt.Errorf("log.format %q is not one of text, json", c.Log.Format)
	}
	return nil
}
