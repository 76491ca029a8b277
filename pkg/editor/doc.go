// Package editor serves the editor HTTP API and the editor's static assets.
//
// Every JSON response under {base}/api is an envelope:
//
//	{"status": "success", "data": ..., "message": "..."}
//	{"status": "error", "message": "...", "error": {"code": "SAVE_ERROR"}}
//
// Routes (base path defaults to /ourohead):
//
//	GET  {base}/api/definition        current definition
//	POST {base}/api/definition        validate, save and reload the engine
//	POST {base}/api/preview           generated data for one endpoint
//	GET  {base}/api/status-templates  starter responses per status code
//	GET  {base}/api/openapi.json      OpenAPI 3 export (also .yaml)
//	POST {base}/api/import/openapi    import an OpenAPI document
//	GET  {base}/api/requests          recent mock requests
//	GET  {base}/api/events            websocket stream of definition changes
//	GET  {base}/editor                the editor page
//
// Anything else under {base}/ is served from the embedded static assets.
package editor
