package portability

import (
	"strconv"

	"github.com/ourohead/ourohead/pkg/definition"
)

// Importer parses one external format into a definition.
type Importer interface {
	Import(data []byte) (*definition.APIDefinition, error)
	Format() Format
}

type warningImporter interface {
	ImportWithWarnings(data []byte) (*definition.APIDefinition, []string, error)
}

// ImportResult is the outcome of an import.
type ImportResult struct {
	Definition    *definition.APIDefinition
	Format        Format
	EndpointCount int

	// Warnings are non-fatal issues such as skipped operations.
	Warnings []string
}

// Import detects the format of data and imports it.
func Import(data []byte, filename string) (*ImportResult, error) {
	return ImportAs(data, DetectFormat(data, filename))
}

// ImportAs imports data in the given format.
func ImportAs(data []byte, format Format) (*ImportResult, error) {
	if format == FormatUnknown {
		return nil, &ImportError{Format: format, Message: "unable to detect format from file content"}
	}
	importer := GetImporter(format)
	if importer == nil {
		return nil, &ImportError{Format: format, Message: "no importer available for format"}
	}

	var (
		def      *definition.APIDefinition
		warnings []string
		err      error
	)
	if wi, ok := importer.(warningImporter); ok {
		def, warnings, err = wi.ImportWithWarnings(data)
	} else {
		def, err = importer.Import(data)
	}
	if err != nil {
		return nil, err
	}
	def.Normalize()

	return &ImportResult{
		Definition:    def,
		Format:        format,
		EndpointCount: len(def.Endpoints),
		Warnings:      warnings,
	}, nil
}

// Merge appends the endpoints of src to dst. Endpoints whose method and path
// already exist in dst replace the existing entry. It returns the number of
// replaced endpoints.
func Merge(dst, src *definition.APIDefinition) int {
	replaced := 0
	for _, ep := range src.Clone().Endpoints {
		if existing, ok := dst.Find(ep.Method, ep.Path); ok {
			*existing = ep
			replaced++
			continue
		}
		dst.Add(ep)
	}
	return replaced
}

// ImportError is returned when data cannot be imported.
type ImportError struct {
	Format  Format
	Line    int
	Message string
	Cause   error
}

func (e *ImportError) Error() string {
	msg := e.Message
	if e.Format != FormatUnknown {
		msg = string(e.Format) + ": " + msg
	}
	if e.Line > 0 {
		msg += " (line " + strconv.Itoa(e.Line) + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}
