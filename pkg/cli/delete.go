package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ourohead/ourohead/pkg/cli/internal/output"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <index>",
	Aliases: []string{"rm"},
	Short:   "Delete an endpoint by its list index",
	Long: `Delete an endpoint by the index shown in 'ourohead list'. The
remaining endpoints keep their order.

Examples:
  ourohead delete 2
  ourohead delete 0 --file api.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := strconv.Atoi(args[0]); err != nil {
			return errEndpointIndex
		}

		src := currentSource()
		def, err := src.Load(cmd.Context())
		if err != nil {
			return err
		}
		index, err := parseIndex(args[0], def)
		if err != nil {
			return err
		}
		removed, err := def.Remove(index)
		if err != nil {
			return err
		}
		msg, err := src.Save(cmd.Context(), def)
		if err != nil {
			return err
		}

		if jsonOutput {
			return output.JSON(map[string]any{"deleted": removed.Key(), "message": msg})
		}
		fmt.Printf("Deleted endpoint: %s\n%s\n", removed.Key(), msg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
