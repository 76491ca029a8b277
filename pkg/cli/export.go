package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ourohead/ourohead/pkg/portability"
)

var (
	exportOutput  string
	exportFormat  string
	exportYAML    bool
	exportTitle   string
	exportVersion string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the definition as a native document or OpenAPI 3",
	Long: `Export the definition.

Formats:
  native   the ourohead definition document (JSON or YAML)
  openapi  an OpenAPI 3.0 document describing every endpoint

The output is JSON unless --yaml is set or --output ends in .yaml/.yml.

Examples:
  ourohead export
  ourohead export --format openapi -o api.yaml
  ourohead export --file api.json --format openapi --title "Shop API"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := portability.ParseFormat(exportFormat)
		if format == portability.FormatUnknown || !format.CanExport() {
			return fmt.Errorf("invalid export format %q (supported: native, openapi)", exportFormat)
		}

		def, err := currentSource().Load(cmd.Context())
		if err != nil {
			return err
		}

		asYAML := exportYAML
		if ext := strings.ToLower(filepath.Ext(exportOutput)); ext == ".yaml" || ext == ".yml" {
			asYAML = true
		}

		var data []byte
		if format == portability.FormatOpenAPI {
			exp := &portability.OpenAPIExporter{Title: exportTitle, Version: exportVersion}
			data, err = exp.Export(def, asYAML)
		} else {
			data, err = portability.Export(def, &portability.ExportOptions{Format: format, AsYAML: asYAML})
		}
		if err != nil {
			return err
		}

		if exportOutput == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", exportOutput, err)
		}
		fmt.Fprintf(os.Stderr, "Exported %d endpoints to %s\n", len(def.Endpoints), exportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "native", "Output format: native, openapi")
	exportCmd.Flags().BoolVar(&exportYAML, "yaml", false, "Write YAML instead of JSON")
	exportCmd.Flags().StringVar(&exportTitle, "title", "", "OpenAPI info.title")
	exportCmd.Flags().StringVar(&exportVersion, "api-version", "", "OpenAPI info.version")
}
