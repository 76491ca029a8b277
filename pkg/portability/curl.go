package portability

import (
	"encoding/json"
	"errors"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ourohead/ourohead/pkg/definition"
)

// CURLImporter turns a single cURL command into one endpoint.
type CURLImporter struct{}

// Format returns FormatCURL.
func (i *CURLImporter) Format() Format {
	return FormatCURL
}

// Import parses a cURL command.
func (i *CURLImporter) Import(data []byte) (*definition.APIDefinition, error) {
	cmd := strings.TrimSpace(string(data))
	if !strings.HasPrefix(cmd, "curl ") && !strings.HasPrefix(cmd, "curl\t") {
		return nil, &ImportError{Format: FormatCURL, Message: "not a valid cURL command"}
	}

	parsed, err := parseCURL(cmd)
	if err != nil {
		return nil, &ImportError{Format: FormatCURL, Message: "failed to parse cURL command", Cause: err}
	}

	return &definition.APIDefinition{Endpoints: []definition.Endpoint{parsed.endpoint()}}, nil
}

type curlParsed struct {
	method      string
	url         string
	headers     map[string]string
	body        string
	user        string
	contentType string
}

var curlFlagsWithArgs = map[string]bool{
	"-o": true, "--output": true,
	"-A": true, "--user-agent": true,
	"-e": true, "--referer": true,
	"-b": true, "--cookie": true,
	"-c": true, "--cookie-jar": true,
	"-T": true, "--upload-file": true,
	"-m": true, "--max-time": true,
	"--connect-timeout": true,
}

func parseCURL(cmd string) (*curlParsed, error) {
	p := &curlParsed{method: "GET", headers: make(map[string]string)}
	explicitMethod := false

	tokens := tokenizeCURL(cmd)
	if len(tokens) > 0 && tokens[0] == "curl" {
		tokens = tokens[1:]
	}

	next := func(idx *int) (string, bool) {
		if *idx+1 >= len(tokens) {
			return "", false
		}
		*idx++
		return tokens[*idx], true
	}
	setBody := func(body string) {
		p.body = body
		if !explicitMethod {
			p.method = "POST"
		}
	}

	for idx := 0; idx < len(tokens); idx++ {
		token := tokens[idx]
		switch {
		case token == "-X" || token == "--request":
			if v, ok := next(&idx); ok {
				p.method = strings.ToUpper(v)
				explicitMethod = true
			}
		case token == "-H" || token == "--header":
			if v, ok := next(&idx); ok {
				name, value, found := strings.Cut(v, ":")
				if found {
					name, value = strings.TrimSpace(name), strings.TrimSpace(value)
					p.headers[name] = value
					if strings.EqualFold(name, "Content-Type") {
						p.contentType = value
					}
				}
			}
		case token == "-d" || token == "--data" || token == "--data-raw" || token == "--data-binary":
			if v, ok := next(&idx); ok {
				setBody(v)
			}
		case token == "--json":
			if v, ok := next(&idx); ok {
				setBody(v)
				p.contentType = "application/json"
			}
		case token == "-u" || token == "--user":
			if v, ok := next(&idx); ok {
				p.user = v
			}
		case token == "-G" || token == "--get":
			p.method = "GET"
			explicitMethod = true
		case strings.HasPrefix(token, "-"):
			if curlFlagsWithArgs[token] {
				idx++
			}
		default:
			if p.url == "" {
				p.url = token
			}
		}
	}

	if p.url == "" {
		return nil, errors.New("no URL found in cURL command")
	}
	if !definition.IsValidMethod(p.method) {
		return nil, errors.New("unsupported method " + p.method)
	}
	return p, nil
}

// tokenizeCURL splits a shell command line, honoring quotes and backslash
// escapes. Line continuations collapse into whitespace.
func tokenizeCURL(cmd string) []string {
	var (
		tokens  []string
		current strings.Builder
		inQuote rune
		escaped bool
		started bool
	)

	for _, r := range cmd {
		if escaped {
			escaped = false
			if r == '\n' {
				continue
			}
			current.WriteRune(r)
			started = true
			continue
		}
		if r == '\\' && inQuote != '\'' {
			escaped = true
			continue
		}
		if inQuote != 0 {
			if r == inQuote {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}
			continue
		}
		switch r {
		case '"', '\'':
			inQuote = r
			started = true
		case ' ', '\t', '\n', '\r':
			if started {
				tokens = append(tokens, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if started {
		tokens = append(tokens, current.String())
	}
	return tokens
}

func (p *curlParsed) endpoint() definition.Endpoint {
	u, err := url.Parse(p.url)
	if err != nil {
		u = &url.URL{Path: "/"}
	}

	ep := definition.Endpoint{
		Path:        templatePath(u.Path),
		Method:      p.method,
		Description: "Imported from cURL",
		Responses:   []definition.StatusResponse{},
	}

	var bodyFields []definition.Field
	bodyType := definition.FieldObject
	if p.body != "" {
		bodyType, bodyFields = inferBody(p.body)
		if bodyFields != nil {
			ct := p.contentType
			if strings.HasPrefix(ct, "application/json") {
				ct = ""
			}
			ep.Request = &definition.Request{Type: bodyType, ContentType: ct, Fields: bodyFields}
		}
	}

	switch {
	case p.user != "":
		ep.RequiresAuth, ep.AuthType = true, definition.AuthBasic
	default:
		for name, value := range p.headers {
			switch {
			case strings.EqualFold(name, "Authorization") && strings.HasPrefix(value, "Bearer "):
				ep.RequiresAuth, ep.AuthType = true, definition.AuthBearer
			case strings.EqualFold(name, "Authorization") && strings.HasPrefix(value, "Basic "):
				ep.RequiresAuth, ep.AuthType = true, definition.AuthBasic
			case strings.EqualFold(name, definition.DefaultAPIKeyHeader):
				ep.RequiresAuth, ep.AuthType = true, definition.AuthAPIKey
			}
		}
	}

	resp := &definition.ResponseSchema{Type: definition.FieldObject}
	if bodyFields != nil {
		resp.Type = bodyType
		resp.Fields = bodyFields
	} else {
		ok := "ok"
		resp.Fields = []definition.Field{{Name: "status", Type: definition.FieldString, DefaultValue: &ok}}
	}
	status := 200
	if p.method == "POST" {
		status = 201
	}
	ep.Responses = append(ep.Responses, definition.StatusResponse{StatusCode: status, Response: resp})
	return ep
}

// templatePath replaces numeric and UUID segments with {id} parameters.
func templatePath(path string) string {
	if path == "" {
		return "/"
	}
	segs := strings.Split(path, "/")
	n := 0
	for i, seg := range segs {
		if seg == "" {
			continue
		}
		_, numErr := strconv.ParseUint(seg, 10, 64)
		_, uuidErr := uuid.Parse(seg)
		if numErr == nil || uuidErr == nil {
			n++
			if n == 1 {
				segs[i] = "{id}"
			} else {
				segs[i] = "{id" + strconv.Itoa(n) + "}"
			}
		}
	}
	return strings.Join(segs, "/")
}

// inferBody derives field descriptors from a JSON body. Non-JSON bodies
// yield nil fields.
func inferBody(body string) (string, []definition.Field) {
	var v any
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return definition.FieldObject, nil
	}
	switch t := v.(type) {
	case map[string]any:
		return definition.FieldObject, inferFields(t)
	case []any:
		if len(t) > 0 {
			if obj, ok := t[0].(map[string]any); ok {
				return definition.FieldArray, inferFields(obj)
			}
		}
		return definition.FieldArray, []definition.Field{}
	}
	return definition.FieldObject, nil
}

func inferFields(obj map[string]any) []definition.Field {
	names := make([]string, 0, len(obj))
	for k := range obj {
		names = append(names, k)
	}
	slices.Sort(names)

	fields := make([]definition.Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, inferField(name, obj[name]))
	}
	return fields
}

func inferField(name string, v any) definition.Field {
	f := definition.Field{Name: name, Required: true}
	switch t := v.(type) {
	case bool:
		f.Type = definition.FieldBoolean
	case float64:
		if t == float64(int64(t)) {
			f.Type = definition.FieldInteger
		} else {
			f.Type = definition.FieldNumber
		}
	case map[string]any:
		f.Type = definition.FieldObject
		f.Fields = inferFields(t)
	case []any:
		f.Type = definition.FieldArray
		if len(t) > 0 {
			if obj, ok := t[0].(map[string]any); ok {
				f.Fields = inferFields(obj)
			}
		}
	case string:
		f.Type = stringKind(t)
	case nil:
		f.Type = definition.FieldString
		f.Required = false
	}
	return f
}

func stringKind(s string) string {
	if _, err := uuid.Parse(s); err == nil && len(s) == 36 {
		return definition.FieldUUID
	}
	if at := strings.IndexByte(s, '@'); at > 0 && strings.Contains(s[at:], ".") && !strings.ContainsAny(s, " \t") {
		return definition.FieldEmail
	}
	return definition.FieldString
}
