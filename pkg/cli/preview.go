package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ourohead/ourohead/internal/matching"
	"github.com/ourohead/ourohead/pkg/cli/internal/output"
	"github.com/ourohead/ourohead/pkg/mockdata"
)

var (
	previewQuery string
	previewSeed  uint64
)

var previewCmd = &cobra.Command{
	Use:   "preview <index>",
	Short: "Generate dummy data for an endpoint",
	Long: `Generate dummy data for the endpoint at <index>, using its first 2xx
response (or its first response). --query narrows the output with a
JSONPath expression.

Examples:
  ourohead preview 0
  ourohead preview 0 --query '$.items[*].id'
  ourohead preview 1 --file api.json --seed 42`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if previewQuery != "" {
			if err := matching.ValidateJSONPath(previewQuery); err != nil {
				return err
			}
		}

		src := currentSource()
		if fsrc, ok := src.(*fileSource); ok && cmd.Flags().Changed("seed") {
			fsrc.gen = mockdata.New(mockdata.WithSeed(previewSeed))
		}
		def, err := src.Load(cmd.Context())
		if err != nil {
			return err
		}
		index, err := parseIndex(args[0], def)
		if err != nil {
			return err
		}
		res, err := src.Preview(cmd.Context(), &def.Endpoints[index])
		if err != nil {
			return err
		}

		data := res.Data
		if data != nil && previewQuery != "" {
			matches, err := matching.QueryJSON(previewQuery, data)
			if err != nil {
				return err
			}
			if data, err = json.Marshal(matches); err != nil {
				return err
			}
		}

		if jsonOutput {
			return output.JSON(struct {
				Message string          `json:"message"`
				Data    json.RawMessage `json:"data"`
			}{res.Message, nullIfEmpty(data)})
		}
		fmt.Fprintln(os.Stderr, res.Message)
		if data == nil {
			return nil
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, data, "", "  "); err != nil {
			return err
		}
		fmt.Println(pretty.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVarP(&previewQuery, "query", "q", "", "JSONPath expression applied to the generated data")
	previewCmd.Flags().Uint64Var(&previewSeed, "seed", 0, "Seed for deterministic data (with --file)")
}

func nullIfEmpty(data json.RawMessage) json.RawMessage {
	if data == nil {
		return json.RawMessage("null")
	}
	return data
}
