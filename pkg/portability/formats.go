package portability

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
)

// Format is a supported import/export format.
type Format string

// Supported formats.
const (
	FormatUnknown Format = ""
	FormatNative  Format = "native"  // definition JSON/YAML
	FormatOpenAPI Format = "openapi" // OpenAPI 3.x
	FormatCURL    Format = "curl"    // cURL command
)

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	switch f {
	case FormatNative, FormatOpenAPI, FormatCURL:
		return true
	default:
		return false
	}
}

// CanImport reports whether f supports importing.
func (f Format) CanImport() bool {
	return f.IsValid()
}

// CanExport reports whether f supports exporting.
func (f Format) CanExport() bool {
	return f == FormatNative || f == FormatOpenAPI
}

// DetectFormat guesses the format from content and filename.
func DetectFormat(data []byte, filename string) Format {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("curl ")) || bytes.HasPrefix(trimmed, []byte("curl\t")) {
		return FormatCURL
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".yaml", ".yml":
		return detectFormatFromYAML(trimmed)
	case ".json", "":
		if f := detectFormatFromJSON(trimmed); f != FormatUnknown {
			return f
		}
		if ext == "" {
			return detectFormatFromYAML(trimmed)
		}
	}
	return FormatUnknown
}

func detectFormatFromJSON(data []byte) Format {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return FormatUnknown
	}
	if _, ok := raw["openapi"]; ok {
		return FormatOpenAPI
	}
	if _, ok := raw["endpoints"]; ok {
		return FormatNative
	}
	return FormatUnknown
}

func detectFormatFromYAML(data []byte) Format {
	for _, line := range strings.Split(string(data), "\n") {
		switch {
		case strings.HasPrefix(line, "openapi:"):
			return FormatOpenAPI
		case strings.HasPrefix(line, "endpoints:"):
			return FormatNative
		}
	}
	return FormatUnknown
}

// ParseFormat parses a format name. Unrecognised names give FormatUnknown.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native", "ourohead", "definition":
		return FormatNative
	case "openapi", "oas":
		return FormatOpenAPI
	case "curl":
		return FormatCURL
	default:
		return FormatUnknown
	}
}

// ImportFormats lists the formats that support importing.
func ImportFormats() []Format {
	return []Format{FormatNative, FormatOpenAPI, FormatCURL}
}

// ExportFormats lists the formats that support exporting.
func ExportFormats() []Format {
	return []Format{FormatNative, FormatOpenAPI}
}
