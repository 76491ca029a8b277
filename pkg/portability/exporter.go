package portability

import (
	"github.com/ourohead/ourohead/pkg/definition"
)

// Exporter renders a definition in one external format.
type Exporter interface {
	Export(def *definition.APIDefinition, asYAML bool) ([]byte, error)
	Format() Format
}

// ExportOptions configures Export.
type ExportOptions struct {
	// Format defaults to FormatNative.
	Format Format
	AsYAML bool
}

// ContentType returns the media type of the exported document.
func (o *ExportOptions) ContentType() string {
	if o != nil && o.AsYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Export renders def in the requested format.
func Export(def *definition.APIDefinition, opts *ExportOptions) ([]byte, error) {
	if opts == nil {
		opts = &ExportOptions{}
	}
	format := opts.Format
	if format == FormatUnknown {
		format = FormatNative
	}
	if !format.CanExport() {
		return nil, &ExportError{Format: format, Message: "format does not support export"}
	}
	exporter := GetExporter(format)
	if exporter == nil {
		return nil, &ExportError{Format: format, Message: "no exporter available for format"}
	}
	if def == nil {
		def = &definition.APIDefinition{}
	}
	return exporter.Export(def, opts.AsYAML)
}

// ExportError is returned when a definition cannot be exported.
type ExportError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	msg := e.Message
	if e.Format != FormatUnknown {
		msg = string(e.Format) + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}
