package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ourohead/ourohead/pkg/cli/internal/output"
	"github.com/ourohead/ourohead/pkg/definition"
	"github.com/ourohead/ourohead/pkg/store/file"
)

// validateResult is the result of `validate --json`.
type validateResult struct {
	File      string               `json:"file"`
	Valid     bool                 `json:"valid"`
	Endpoints int                  `json:"endpoints"`
	Problems  []definition.Problem `json:"problems,omitempty"`
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a definition file for errors",
	Long: `Check a definition file: paths start with /, methods and field types
are known, status codes are 100-599, method and path pairs are unique and
response conditions compile. Without an argument the --file definition is
checked.

Examples:
  ourohead validate api.json
  ourohead validate --file api.yaml --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := definitionFile
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return errors.New("no definition file given")
		}

		def, err := file.ReadFile(path)
		if err != nil {
			return err
		}
		res := validateResult{File: path, Valid: true, Endpoints: len(def.Endpoints)}
		verr := def.Validate()
		var problems *definition.ValidationError
		if errors.As(verr, &problems) {
			res.Valid = false
			res.Problems = problems.Problems
		} else if verr != nil {
			return verr
		}

		if jsonOutput {
			if err := output.JSON(res); err != nil {
				return err
			}
			if !res.Valid {
				return fmt.Errorf("%s is invalid", path)
			}
			return nil
		}
		if !res.Valid {
			return verr
		}
		fmt.Printf("%s is valid (%d endpoints)\n", path, res.Endpoints)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
