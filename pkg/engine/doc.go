// Package engine serves the endpoints of an API definition with generated
// dummy data.
//
// A Handler holds an immutable route table that Reload swaps atomically, so
// saving a definition in the editor takes effect on the next request without
// restarting the listener. For each request the handler:
//
//   - matches method and path (exact, {param} and * patterns, scored)
//   - enforces the endpoint's auth requirement (401 on failure)
//   - validates the request body against the declared request fields (400)
//   - selects a response: X-Mock-Status, then the first matching "when"
//     condition, then the first 2xx response
//   - generates the body and renders it as JSON or XML
//
// Unmatched requests and generator failures are answered with the 404 and
// 500 status templates.
//
//	h, err := engine.NewHandler(def, engine.WithLogger(log))
//	srv := httputil.NewServer("mock", ":4280", h)
//	if err := srv.Start(); err != nil {
//		return err
//	}
//	defer srv.Stop(ctx)
package engine
