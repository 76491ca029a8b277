package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ourohead/ourohead/pkg/config"
)

var (
	// Persistent flags available to all subcommands
	definitionFile string
	editorURL      string
	configPath     string
	jsonOutput     bool
	displayLang    string

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ourohead",
	Short: "ourohead designs mock REST APIs and serves them",
	Long: `ourohead edits a mock API definition (endpoints, status codes and
response fields) and serves dummy data for it.

Commands work against a running editor (see 'ourohead serve') or, with
--file, directly on a definition file without a server.

Configuration can be provided via flags, OUROHEAD_* environment variables,
or an ourohead.yaml, ourohead.toml or ourohead.json file.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&definitionFile, "file", "f", "", "Work on a definition file instead of a running editor")
	rootCmd.PersistentFlags().StringVar(&editorURL, "editor-url", defaultEditorURL(), "Editor API base URL")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv(config.EnvConfig), "Config file (default: ./ourohead.{yaml,toml,json})")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	rootCmd.PersistentFlags().StringVar(&displayLang, "lang", "", "Language for error messages: ko or en (default from $LANG)")
}

// defaultEditorURL is OUROHEAD_EDITOR_URL, or the local editor derived from
// the default ports and base path.
func defaultEditorURL() string {
	if u := os.Getenv(config.EnvEditorURL); u != "" {
		return u
	}
	cfg := config.Default()
	return cfg.EditorURL() + cfg.BasePath
}
