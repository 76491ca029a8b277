package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ourohead/ourohead/pkg/cli/internal/output"
	"github.com/ourohead/ourohead/pkg/definition"
)

// endpointSummary is one row of `list --json`.
type endpointSummary struct {
	Index       int    `json:"index"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Statuses    []int  `json:"statuses"`
	Auth        string `json:"auth,omitempty"`
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the endpoints of the definition",
	Long: `List the endpoints of the definition with their index, method,
path, status codes and description. The index is what delete and preview take.

Examples:
  # List endpoints from the running editor
  ourohead list

  # List endpoints from a definition file (no server needed)
  ourohead list --file api.json

  # List as JSON
  ourohead list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := currentSource().Load(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(summarize(def))
		}
		return printEndpoints(def)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func summarize(def *definition.APIDefinition) []endpointSummary {
	out := make([]endpointSummary, 0, len(def.Endpoints))
	for i := range def.Endpoints {
		ep := &def.Endpoints[i]
		s := endpointSummary{
			Index:       i,
			Method:      ep.Method,
			Path:        ep.Path,
			Description: ep.DisplayDescription(),
			Color:       definition.MethodColor(ep.Method),
			Statuses:    statusCodes(ep),
		}
		if ep.RequiresAuth {
			s.Auth = ep.AuthType
		}
		out = append(out, s)
	}
	return out
}

func printEndpoints(def *definition.APIDefinition) error {
	if len(def.Endpoints) == 0 {
		fmt.Println(definition.EmptyListText)
		return nil
	}

	w := output.Table()
	_, _ = fmt.Fprintln(w, "#\tMETHOD\tPATH\tSTATUS\tDESCRIPTION")
	for i := range def.Endpoints {
		ep := &def.Endpoints[i]
		path := ep.Path
		if ep.RequiresAuth {
			path += " (auth)"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			i, output.Badge(ep.Method), path, joinCodes(statusCodes(ep)), ep.DisplayDescription())
	}
	return w.Flush()
}

func statusCodes(ep *definition.Endpoint) []int {
	codes := make([]int, 0, len(ep.Responses))
	for _, r := range ep.Responses {
		codes = append(codes, r.StatusCode)
	}
	return codes
}

func joinCodes(codes []int) string {
	if len(codes) == 0 {
		return "-"
	}
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ",")
}

// parseIndex reads an endpoint index argument and checks it against def.
func parseIndex(arg string, def *definition.APIDefinition) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errEndpointIndex
	}
	if index < 0 || index >= len(def.Endpoints) {
		return 0, fmt.Errorf("no endpoint at index %d (the definition has %d)", index, len(def.Endpoints))
	}
	return index, nil
}
