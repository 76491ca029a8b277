// Package logging configures the log/slog loggers used across ourohead.
//
// Components take a *slog.Logger through an option or setter and fall back
// to Nop() when none is given:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel(cfg.Log.Level),
//	    Format: logging.ParseFormat(cfg.Log.Format),
//	})
//	logger.Info("editor started", "addr", ":8080")
//
// Handlers built by New add the request id stored with WithRequestID to every
// record logged with a context, so access logs and handler logs line up.
// Setting Config.File tees records into an append-only log file as well.
package logging
