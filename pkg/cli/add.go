package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ourohead/ourohead/pkg/cli/internal/output"
	"github.com/ourohead/ourohead/pkg/definition"
	"github.com/ourohead/ourohead/pkg/statustemplate"
)

var (
	addPath        string
	addMethod      string
	addDescription string
	addStatuses    []int
	addAuth        string
	addAuthHeader  string
	addFields      []string
)

var addMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH"}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an endpoint",
	Long: `Add an endpoint to the definition. Each status code starts from its
template; --field adds properties to the success (2xx) responses.

Without --path an interactive form asks for the endpoint.

Examples:
  # Interactive
  ourohead add

  # Flags
  ourohead add --path /users --method GET --status 200 --status 401 \
    --field id:uuid --field name:string --field active:boolean=true

  # Authenticated endpoint in a definition file
  ourohead add --file api.json --path /me --auth bearer`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("path") {
			if err := runAddForm(); err != nil {
				return err
			}
		}

		ep, err := buildEndpoint()
		if err != nil {
			return err
		}

		src := currentSource()
		def, err := src.Load(cmd.Context())
		if err != nil {
			return err
		}
		if _, exists := def.Find(ep.Method, ep.Path); exists {
			return fmt.Errorf("endpoint %s already exists", ep.Key())
		}
		def.Add(ep)
		msg, err := src.Save(cmd.Context(), def)
		if err != nil {
			return err
		}

		if jsonOutput {
			return output.JSON(map[string]any{"index": len(def.Endpoints) - 1, "endpoint": ep, "message": msg})
		}
		fmt.Printf("Added endpoint %d: %s\n%s\n", len(def.Endpoints)-1, ep.Key(), msg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addPath, "path", "", "URL path, e.g. /users/{id}")
	addCmd.Flags().StringVarP(&addMethod, "method", "m", "GET", "HTTP method")
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Endpoint description")
	addCmd.Flags().IntSliceVarP(&addStatuses, "status", "s", []int{200}, "Status codes to respond with (repeatable)")
	addCmd.Flags().StringVar(&addAuth, "auth", "", "Require auth: bearer, apiKey or basic")
	addCmd.Flags().StringVar(&addAuthHeader, "auth-header", "", "Header carrying the API key (default X-API-Key)")
	addCmd.Flags().StringArrayVar(&addFields, "field", nil, "Response field name:type[=default] (repeatable)")
}

func runAddForm() error {
	codes := []int{200}
	auth := ""
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What is the endpoint path?").
				Placeholder("/api/users/{id}").
				Value(&addPath).
				Validate(func(s string) error {
					if !strings.HasPrefix(strings.TrimSpace(s), "/") {
						return errors.New("path must start with /")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Which HTTP method?").
				Options(huh.NewOptions(addMethods...)...).
				Value(&addMethod),
			huh.NewInput().
				Title("Description").
				Value(&addDescription),
		),
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Which status codes should it return?").
				Options(statusOptions()...).
				Value(&codes),
			huh.NewSelect[string]().
				Title("Authentication").
				Options(
					huh.NewOption("None", ""),
					huh.NewOption("Bearer token", definition.AuthBearer),
					huh.NewOption("API key", definition.AuthAPIKey),
					huh.NewOption("Basic", definition.AuthBasic),
				).
				Value(&auth),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	addStatuses = codes
	addAuth = auth
	return nil
}

func statusOptions() []huh.Option[int] {
	templates := statustemplate.Available()
	opts := make([]huh.Option[int], 0, len(templates))
	for _, t := range templates {
		opts = append(opts, huh.NewOption(t.Label+" · "+t.Description, t.Code).Selected(t.Code == 200))
	}
	return opts
}

// buildEndpoint assembles the endpoint from the add flags.
func buildEndpoint() (definition.Endpoint, error) {
	ep := definition.Endpoint{
		Path:        strings.TrimSpace(addPath),
		Method:      strings.ToUpper(strings.TrimSpace(addMethod)),
		Description: addDescription,
		Responses:   []definition.StatusResponse{},
	}
	if !definition.IsValidMethod(ep.Method) {
		return ep, fmt.Errorf("unsupported method %q", addMethod)
	}

	fields := make([]definition.Field, 0, len(addFields))
	for _, spec := range addFields {
		f, err := parseFieldSpec(spec)
		if err != nil {
			return ep, err
		}
		fields = append(fields, f)
	}

	codes := slices.Clone(addStatuses)
	slices.Sort(codes)
	codes = slices.Compact(codes)
	for _, code := range codes {
		sr := statustemplate.StatusResponse(code)
		if code >= 200 && code < 300 && len(fields) > 0 {
			sr.Response.Fields = append(sr.Response.Fields, fields...)
		}
		ep.Responses = append(ep.Responses, sr)
	}

	switch addAuth {
	case "":
	case definition.AuthBearer, definition.AuthAPIKey, definition.AuthBasic:
		ep.RequiresAuth = true
		ep.AuthType = addAuth
		if addAuth == definition.AuthAPIKey {
			ep.AuthHeader = addAuthHeader
		}
	default:
		return ep, fmt.Errorf("unsupported auth type %q (use bearer, apiKey or basic)", addAuth)
	}
	return ep, nil
}

// parseFieldSpec parses name:type[=default].
func parseFieldSpec(spec string) (definition.Field, error) {
	name, rest, ok := strings.Cut(spec, ":")
	if !ok || name == "" {
		return definition.Field{}, fmt.Errorf("invalid field %q: want name:type[=default]", spec)
	}
	typ, def, hasDefault := strings.Cut(rest, "=")
	if !slices.Contains(definition.FieldTypes, typ) {
		return definition.Field{}, fmt.Errorf("invalid field %q: unknown type %q", spec, typ)
	}
	f := definition.Field{Name: name, Type: typ}
	if hasDefault {
		f.DefaultValue = &def
	}
	return f, nil
}
