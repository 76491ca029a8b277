package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ourohead/ourohead/pkg/cli/internal/output"
	"github.com/ourohead/ourohead/pkg/client"
)

var requestsLimit int

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Show recent requests to the mock server",
	Long: `Show recent requests answered by the mock server of a running editor,
newest first. Unmatched requests list the closest endpoints.

Examples:
  ourohead requests
  ourohead requests --limit 20 --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if definitionFile != "" {
			return errors.New("requests needs a running editor; drop --file")
		}
		entries, err := client.New(editorURL).Requests(cmd.Context(), requestsLimit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(entries)
		}
		if len(entries) == 0 {
			fmt.Println("No requests yet")
			return nil
		}

		w := output.Table()
		_, _ = fmt.Fprintln(w, "TIME\tMETHOD\tPATH\tSTATUS\tENDPOINT\tDURATION")
		for _, e := range entries {
			endpoint := e.Endpoint
			if endpoint == "" && len(e.NearMisses) > 0 {
				nm := e.NearMisses[0]
				endpoint = "~ " + nm.Method + " " + nm.Path
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%dms\n",
				e.Timestamp.Format("15:04:05"), output.Badge(e.Method), e.Path, e.Status, endpoint, e.DurationMs)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(requestsCmd)

	requestsCmd.Flags().IntVarP(&requestsLimit, "limit", "n", 50, "Maximum number of requests")
}
