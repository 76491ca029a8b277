package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/ourohead/ourohead/pkg/cli/internal/output"
	"github.com/ourohead/ourohead/pkg/definition"
	"github.com/ourohead/ourohead/pkg/portability"
)

var (
	importFormat  string
	importReplace bool
	importDryRun  bool
)

// importSummary is the result of `import --json`.
type importSummary struct {
	Files    []string `json:"files"`
	Imported int      `json:"imported"`
	Replaced int      `json:"replaced"`
	Total    int      `json:"total"`
	Warnings []string `json:"warnings,omitempty"`
	Message  string   `json:"message,omitempty"`
}

var importCmd = &cobra.Command{
	Use:   "import <file|glob>...",
	Short: "Import endpoints from OpenAPI, cURL or definition files",
	Long: `Import endpoints from one or more files. Patterns may use ** to match
across directories. The format of each file is detected from its content
unless --format is given.

Imported endpoints are merged into the definition: an endpoint with the same
method and path is replaced. --replace discards the existing endpoints first.

Examples:
  ourohead import openapi.yaml
  ourohead import 'specs/**/*.yaml' --replace
  ourohead import request.curl --format curl --file api.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := portability.FormatUnknown
		if importFormat != "" {
			format = portability.ParseFormat(importFormat)
			if !format.CanImport() {
				return fmt.Errorf("invalid import format %q (supported: native, openapi, curl)", importFormat)
			}
		}

		files, err := expandGlobs(args)
		if err != nil {
			return err
		}

		src := currentSource()
		def, err := src.Load(cmd.Context())
		if err != nil {
			return err
		}
		if importReplace {
			def = &definition.APIDefinition{Endpoints: []definition.Endpoint{}}
		}

		summary := importSummary{Files: files}
		for _, path := range files {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			var res *portability.ImportResult
			if format == portability.FormatUnknown {
				res, err = portability.Import(data, path)
			} else {
				res, err = portability.ImportAs(data, format)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			for _, w := range res.Warnings {
				summary.Warnings = append(summary.Warnings, path+": "+w)
			}
			summary.Imported += res.EndpointCount
			summary.Replaced += portability.Merge(def, res.Definition)
		}
		summary.Total = len(def.Endpoints)

		if !importDryRun {
			if summary.Message, err = src.Save(cmd.Context(), def); err != nil {
				return err
			}
		}

		if jsonOutput {
			return output.JSON(summary)
		}
		for _, w := range summary.Warnings {
			output.Warn("%s", w)
		}
		fmt.Printf("Imported %d endpoints from %d files (%d replaced, %d total)\n",
			summary.Imported, len(files), summary.Replaced, summary.Total)
		if summary.Message != "" {
			fmt.Println(summary.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importFormat, "format", "", "Input format: native, openapi, curl (default: detect)")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Replace the existing endpoints instead of merging")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would be imported without saving")
}

// expandGlobs resolves every pattern, sorted and without duplicates. Plain
// paths that do not exist are reported as errors.
func expandGlobs(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		var (
			matches []string
			err     error
		)
		if strings.Contains(pattern, "**") {
			matches, err = doublestar.FilepathGlob(pattern)
		} else {
			matches, err = filepath.Glob(pattern)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && !info.IsDir() {
				files = append(files, m)
			}
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}
