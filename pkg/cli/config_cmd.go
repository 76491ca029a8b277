package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ourohead/ourohead/pkg/cli/internal/output"
	"github.com/ourohead/ourohead/pkg/config"
)

// configEntry is one resolved setting.
type configEntry struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration and where each value came from",
	Long: `Show the configuration 'ourohead serve' would use: defaults, then the
config file, then OUROHEAD_* environment variables.

Examples:
  ourohead config
  ourohead config --config ./ourohead.toml --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAll(configPath)
		if err != nil {
			return err
		}
		entries := configEntries(cfg)
		if jsonOutput {
			return output.JSON(entries)
		}

		w := output.Table()
		_, _ = fmt.Fprintln(w, "KEY\tVALUE\tSOURCE")
		for _, e := range entries {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.Key, e.Value, e.Source)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			output.Warn("%v", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func configEntries(cfg *config.Config) []configEntry {
	secret := ""
	if cfg.Auth.JWTSecret != "" {
		secret = "********"
	}
	pairs := []struct{ key, value string }{
		{"editorPort", strconv.Itoa(cfg.EditorPort)},
		{"mockPort", strconv.Itoa(cfg.MockPort)},
		{"basePath", cfg.BasePath},
		{"readTimeout", strconv.Itoa(cfg.ReadTimeout)},
		{"writeTimeout", strconv.Itoa(cfg.WriteTimeout)},
		{"seed", strconv.FormatUint(cfg.Seed, 10)},
		{"store.backend", cfg.Store.Backend},
		{"store.path", cfg.Store.Path},
		{"log.level", cfg.Log.Level},
		{"log.format", cfg.Log.Format},
		{"log.file", cfg.Log.File},
		{"cors.allowedOrigins", strings.Join(cfg.CORS.AllowedOrigins, ",")},
		{"auth.jwtSecret", secret},
	}
	entries := make([]configEntry, 0, len(pairs))
	for _, p := range pairs {
		source := cfg.Sources[p.key]
		if source == "" {
			source = config.SourceDefault
		}
		entries = append(entries, configEntry{Key: p.key, Value: p.value, Source: source})
	}
	return entries
}
