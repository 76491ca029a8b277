package cli

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/ourohead/ourohead/pkg/cli/internal/output"
	"github.com/ourohead/ourohead/pkg/client"
)

var versionEditor bool

// VersionReport is the output of `ourohead version`.
type VersionReport struct {
	Version  string         `json:"version"`
	Commit   string         `json:"commit"`
	Built    string         `json:"built"`
	Platform string         `json:"platform"`
	Editor   *EditorVersion `json:"editor,omitempty"`
}

// EditorVersion describes the editor the CLI talks to.
type EditorVersion struct {
	URL     string `json:"url"`
	Version string `json:"version"`
	Uptime  int    `json:"uptime"`
	Matches bool   `json:"matches"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the ourohead version",
	Long: `Show the version of this binary. With --editor, also ask the running
editor for its version and warn when the two differ.

Examples:
  ourohead version
  ourohead version --editor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		url := ""
		if versionEditor {
			url = editorURL
		}
		report, err := versionReport(cmd.Context(), url)
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(report)
		}

		fmt.Printf("ourohead %s (%s, %s) %s\n", displayVersion(report.Version), report.Commit, report.Built, report.Platform)
		if e := report.Editor; e != nil {
			fmt.Printf("editor   %s at %s, up %s\n", displayVersion(e.Version), e.URL, time.Duration(e.Uptime)*time.Second)
			if !e.Matches {
				output.Warn("editor runs %s but this CLI is %s", e.Version, report.Version)
			}
		}
		return nil
	},
}

// versionReport describes this binary and, when editorURL is set, the
// editor behind it.
func versionReport(ctx context.Context, editorURL string) (*VersionReport, error) {
	report := buildVersion()
	if editorURL == "" {
		return report, nil
	}
	h, err := client.New(editorURL, client.WithTimeout(5*time.Second)).Health(ctx)
	if err != nil {
		return nil, err
	}
	report.Editor = &EditorVersion{
		URL:     editorURL,
		Version: h.Version,
		Uptime:  h.Uptime,
		Matches: h.Version == report.Version,
	}
	return report, nil
}

// buildVersion prefers link-time values and falls back to the VCS stamp
// the go tool embeds.
func buildVersion() *VersionReport {
	r := &VersionReport{
		Version:  Version,
		Commit:   Commit,
		Built:    BuildDate,
		Platform: runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH,
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return r
	}
	vcs := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		vcs[s.Key] = s.Value
	}
	if r.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		r.Version = info.Main.Version
	}
	if rev := vcs["vcs.revision"]; r.Commit == "none" && rev != "" {
		r.Commit = rev
		if vcs["vcs.modified"] == "true" {
			r.Commit += "-dirty"
		}
	}
	if t := vcs["vcs.time"]; r.Built == "unknown" && t != "" {
		r.Built = t
	}
	return r
}

func displayVersion(v string) string {
	if v == "" || v == "dev" || v[0] == 'v' {
		return v
	}
	return "v" + v
}

func init() {
	versionCmd.Flags().BoolVar(&versionEditor, "editor", false, "Also report the running editor's version")
	rootCmd.AddCommand(versionCmd)
}
