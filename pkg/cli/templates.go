package cli

import (
	"fmt"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"

	"github.com/ourohead/ourohead/pkg/cli/internal/output"
	"github.com/ourohead/ourohead/pkg/statustemplate"
)

var templatesAll bool

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the status code templates",
	Long: `List the status code templates new responses start from. Codes the
mock server answers on its own (404, 500, 502, 503) are only listed with --all.

Examples:
  ourohead templates
  ourohead templates --all
  ourohead templates show 401`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		templates := statustemplate.Available()
		if templatesAll {
			codes := statustemplate.Codes()
			templates = make([]statustemplate.Template, 0, len(codes))
			for _, c := range codes {
				templates = append(templates, statustemplate.Get(c))
			}
		}
		if jsonOutput {
			return output.JSON(templates)
		}

		title := cases.Title(language.English)
		current := ""
		for _, t := range templates {
			if cat := statusCategory(t.Code); cat != current {
				if current != "" {
					fmt.Println()
				}
				current = cat
				fmt.Println(output.Heading(title.String(cat)))
			}
			fmt.Printf("  %-28s  %s\n", t.Label, t.Description)
		}
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <code>",
	Short: "Show the response a status code starts with",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := strconv.Atoi(args[0])
		if err != nil || code < 100 || code > 599 {
			return fmt.Errorf("invalid status code %q", args[0])
		}
		return output.JSON(statustemplate.Get(code))
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesShowCmd)

	templatesCmd.Flags().BoolVarP(&templatesAll, "all", "a", false, "Include the globally handled codes")
}

func statusCategory(code int) string {
	switch code / 100 {
	case 1:
		return "informational"
	case 2:
		return "success"
	case 3:
		return "redirection"
	case 4:
		return "client error"
	default:
		return "server error"
	}
}
