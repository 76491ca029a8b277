package portability

import (
	"slices"
	"sync"
)

// Registry holds the importers and exporters by format.
type Registry struct {
	mu        sync.RWMutex
	importers map[Format]Importer
	exporters map[Format]Exporter
}

// NewRegistry returns a registry with the built-in formats registered.
func NewRegistry() *Registry {
	r := &Registry{
		importers: make(map[Format]Importer),
		exporters: make(map[Format]Exporter),
	}
	r.RegisterImporter(&NativeImporter{})
	r.RegisterImporter(&OpenAPIImporter{})
	r.RegisterImporter(&CURLImporter{})
	r.RegisterExporter(&NativeExporter{})
	r.RegisterExporter(&OpenAPIExporter{})
	return r
}

var defaultRegistry = NewRegistry()

// GetImporter returns the importer for format from the default registry.
func GetImporter(format Format) Importer {
	return defaultRegistry.GetImporter(format)
}

// GetExporter returns the exporter for format from the default registry.
func GetExporter(format Format) Exporter {
	return defaultRegistry.GetExporter(format)
}

// RegisterImporter adds an importer, replacing any for the same format.
func (r *Registry) RegisterImporter(importer Importer) {
	if importer == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.importers[importer.Format()] = importer
}

// RegisterExporter adds an exporter, replacing any for the same format.
func (r *Registry) RegisterExporter(exporter Exporter) {
	if exporter == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exporters[exporter.Format()] = exporter
}

// GetImporter returns the importer for format, or nil.
func (r *Registry) GetImporter(format Format) Importer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.importers[format]
}

// GetExporter returns the exporter for format, or nil.
func (r *Registry) GetExporter(format Format) Exporter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.exporters[format]
}

// ImportFormats lists the registered import formats, sorted.
func (r *Registry) ImportFormats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Format, 0, len(r.importers))
	for f := range r.importers {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}
