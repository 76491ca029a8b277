package editor

import (
	"io"
	"net/http"

	"github.com/ourohead/ourohead/pkg/httputil"
	"github.com/ourohead/ourohead/pkg/portability"
)

// ImportResult is the data of a successful OpenAPI import.
type ImportResult struct {
	EndpointCount int      `json:"endpointCount"`
	Replaced      int      `json:"replaced"`
	Total         int      `json:"total"`
	Warnings      []string `json:"warnings,omitempty"`
}

// handleExportOpenAPI handles GET {base}/api/openapi.json and .yaml. The
// document itself is the response body; failures are error envelopes.
func (a *API) handleExportOpenAPI(w http.ResponseWriter, r *http.Request) {
	def, err := a.store.Load(r.Context())
	if err != nil {
		a.log.Error("failed to load API definition", "error", err)
		httputil.WriteFail(w, http.StatusInternalServerError, CodeLoadError, MsgLoadFailed)
		return
	}

	opts := &portability.ExportOptions{Format: portability.FormatOpenAPI, AsYAML: wantsYAML(r)}
	data, err := portability.Export(def, opts)
	if err != nil {
		a.log.Error("failed to export OpenAPI document", "error", err)
		httputil.WriteFail(w, http.StatusInternalServerError, CodeExportError, MsgExportFailed)
		return
	}
	httputil.WriteBody(w, http.StatusOK, opts.ContentType(), data)
}

// handleImportOpenAPI handles POST {base}/api/import/openapi. The body is an
// OpenAPI 3 document in JSON or YAML. Imported endpoints are merged into the
// current definition unless ?mode=replace.
func (a *API) handleImportOpenAPI(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, httputil.MaxBodySize+1))
	if err != nil || len(body) > httputil.MaxBodySize {
		httputil.WriteFail(w, http.StatusBadRequest, CodeImportError, MsgImportFailed+"request body too large")
		return
	}

	res, err := portability.ImportAs(body, portability.FormatOpenAPI)
	if err != nil {
		a.log.Warn("OpenAPI import failed", "error", err)
		httputil.WriteFail(w, http.StatusBadRequest, CodeImportError, MsgImportFailed+err.Error())
		return
	}

	out := ImportResult{EndpointCount: res.EndpointCount, Warnings: res.Warnings}
	def := res.Definition
	if r.URL.Query().Get("mode") != "replace" {
		current, err := a.store.Load(r.Context())
		if err != nil {
			a.log.Error("failed to load API definition", "error", err)
			httputil.WriteFail(w, http.StatusInternalServerError, CodeLoadError, MsgLoadFailed)
			return
		}
		out.Replaced = portability.Merge(current, def)
		def = current
	}
	out.Total = len(def.Endpoints)

	a.log.Info("importing OpenAPI document", "endpoints", out.EndpointCount, "replaced", out.Replaced)
	if status, ok := a.apply(w, r, def); ok {
		httputil.WriteSuccess(w, status, MsgImported, out)
	}
}
