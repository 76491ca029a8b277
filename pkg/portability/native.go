package portability

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/ourohead/ourohead/pkg/definition"
)

// NativeImporter reads definition files in JSON or YAML.
type NativeImporter struct{}

// Import parses data as a definition. YAML parsing accepts JSON as well.
func (i *NativeImporter) Import(data []byte) (*definition.APIDefinition, error) {
	var def definition.APIDefinition
	trimmed := bytes.TrimSpace(data)

	var err error
	if len(trimmed) > 0 && trimmed[0] == '{' {
		err = json.Unmarshal(trimmed, &def)
	} else {
		err = yaml.Unmarshal(trimmed, &def)
	}
	if err != nil {
		ierr := &ImportError{Format: FormatNative, Message: "failed to parse definition", Cause: err}
		if serr, ok := err.(*json.SyntaxError); ok {
			ierr.Line = 1 + bytes.Count(trimmed[:serr.Offset], []byte("\n"))
		}
		return nil, ierr
	}
	if def.Endpoints == nil {
		def.Endpoints = []definition.Endpoint{}
	}
	return &def, nil
}

// Format returns FormatNative.
func (i *NativeImporter) Format() Format {
	return FormatNative
}

// NativeExporter writes definition files.
type NativeExporter struct{}

// Export renders def as indented JSON or YAML.
func (e *NativeExporter) Export(def *definition.APIDefinition, asYAML bool) ([]byte, error) {
	if asYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(def); err != nil {
			return nil, &ExportError{Format: FormatNative, Message: "failed to encode YAML", Cause: err}
		}
		_ = enc.Close()
		return buf.Bytes(), nil
	}
	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return nil, &ExportError{Format: FormatNative, Message: "failed to encode JSON", Cause: err}
	}
	return append(data, '\n'), nil
}

// Format returns FormatNative.
func (e *NativeExporter) Format() Format {
	return FormatNative
}
