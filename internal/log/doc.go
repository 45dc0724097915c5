// Package log provides secure logging for urlprint on top of log/slog.
//
// SecureHandler wraps any slog.Handler and rewrites attributes before they
// reach it:
//   - values under sensitive keys (cookie, authorization, token, ...) and
//     values that look like bearer/basic credentials or JWTs are masked
//   - URLs carrying a password have it replaced with "xxxxx"
//   - data: URIs are shortened to their media type and payload size, so a
//     compared inline image never ends up in a log file
//
// Even in verbose mode, sensitive values are masked; per-host cookies and
// headers from the .urlprint file are exactly the kind of value that would
// otherwise leak into shared logs.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("fetching image", "url", "data:image/png;base64,iVBOR...")
//	// url=data:image/png;base64,...(5120 bytes)
package log
