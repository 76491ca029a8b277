package editor

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ourohead/ourohead/pkg/definition"
	"github.com/ourohead/ourohead/pkg/httputil"
	"github.com/ourohead/ourohead/pkg/statustemplate"
)

// handleGetDefinition handles GET {base}/api/definition.
func (a *API) handleGetDefinition(w http.ResponseWriter, r *http.Request) {
	a.log.Info("fetching current API definition")
	def, err := a.store.Load(r.Context())
	if err != nil {
		a.log.Error("failed to load API definition", "error", err)
		httputil.WriteFail(w, http.StatusInternalServerError, CodeLoadError, MsgLoadFailed)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, MsgDefinitionLoaded, def)
}

// handleSaveDefinition handles POST {base}/api/definition.
func (a *API) handleSaveDefinition(w http.ResponseWriter, r *http.Request) {
	var def definition.APIDefinition
	if err := httputil.DecodeJSON(r, &def); err != nil {
		a.log.Debug("invalid definition body", "error", err)
		httputil.WriteFail(w, http.StatusBadRequest, CodeInvalidJSON, MsgInvalidJSON)
		return
	}
	a.log.Info("saving API definition", "endpoints", len(def.Endpoints))

	if status, ok := a.apply(w, r, &def); ok {
		httputil.WriteSuccess(w, status, MsgDefinitionSaved, nil)
	}
}

// apply validates, saves and reloads def. It writes the error envelope and
// returns false on failure.
func (a *API) apply(w http.ResponseWriter, r *http.Request, def *definition.APIDefinition) (int, bool) {
	def.Normalize()
	if err := def.Validate(); err != nil {
		var verr *definition.ValidationError
		if errors.As(err, &verr) {
			a.log.Warn("definition validation failed", "problems", len(verr.Problems))
			httputil.WriteFailWithDetails(w, http.StatusBadRequest, CodeValidationError, MsgValidationFailed, verr.Problems)
			return 0, false
		}
		httputil.WriteFail(w, http.StatusBadRequest, CodeValidationError, MsgValidationFailed)
		return 0, false
	}

	if err := a.store.Save(r.Context(), def); err != nil {
		a.log.Error("failed to save API definition", "error", err)
		httputil.WriteFail(w, http.StatusInternalServerError, CodeSaveError, MsgSaveFailed+err.Error())
		return 0, false
	}
	if a.engine != nil {
		if err := a.engine.Reload(def); err != nil {
			a.log.Error("failed to reload endpoints", "error", err)
			httputil.WriteFail(w, http.StatusInternalServerError, CodeSaveError, MsgSaveFailed+err.Error())
			return 0, false
		}
	}
	return http.StatusOK, true
}

// handlePreview handles POST {base}/api/preview. The body is one endpoint;
// its first 2xx response (else its first response) is generated.
func (a *API) handlePreview(w http.ResponseWriter, r *http.Request) {
	var ep definition.Endpoint
	if err := httputil.DecodeJSON(r, &ep); err != nil {
		a.log.Debug("invalid preview body", "error", err)
		httputil.WriteFail(w, http.StatusBadRequest, CodeInvalidJSON, MsgInvalidJSON)
		return
	}
	a.log.Info("generating preview", "method", ep.Method, "path", ep.Path)

	sr := ep.PreviewResponse()
	if sr == nil || sr.Response == nil {
		httputil.WriteSuccess(w, http.StatusOK, MsgNoResponse, nil)
		return
	}

	data, err := a.gen.Generate(sr.Response)
	if err != nil {
		a.log.Error("failed to generate preview", "error", err)
		httputil.WriteFail(w, http.StatusInternalServerError, CodePreviewError, MsgPreviewFailed+err.Error())
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, MsgPreviewGenerated, data)
}

// handleStatusTemplates handles GET {base}/api/status-templates.
// ?all=true includes the globally handled codes.
func (a *API) handleStatusTemplates(w http.ResponseWriter, r *http.Request) {
	var templates []statustemplate.Template
	if all, _ := strconv.ParseBool(r.URL.Query().Get("all")); all {
		for _, code := range statustemplate.Codes() {
			templates = append(templates, statustemplate.Get(code))
		}
	} else {
		templates = statustemplate.Available()
	}
	httputil.WriteSuccess(w, http.StatusOK, MsgTemplatesLoaded, templates)
}

// handleListRequests handles GET {base}/api/requests?limit=N.
func (a *API) handleListRequests(w http.ResponseWriter, r *http.Request) {
	if a.requests == nil {
		httputil.WriteFail(w, http.StatusNotFound, CodeNotFound, MsgNoRequestLog)
		return
	}
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	httputil.WriteSuccess(w, http.StatusOK, MsgRequestsLoaded, a.requests.List(limit))
}

// handleClearRequests handles DELETE {base}/api/requests.
func (a *API) handleClearRequests(w http.ResponseWriter, _ *http.Request) {
	if a.requests == nil {
		httputil.WriteFail(w, http.StatusNotFound, CodeNotFound, MsgNoRequestLog)
		return
	}
	a.requests.Clear()
	httputil.WriteSuccess(w, http.StatusOK, MsgRequestsCleared, nil)
}
