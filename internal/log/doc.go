// Package log provides sanitizing structured logging built on log/slog.
//
// The SecureHandler wraps any slog.Handler and rewrites attributes before
// they are written:
//   - credential headers and token-like values are masked
//   - signed image URLs have their signature query parameters masked
//   - data: URLs are cut down to their media type and a short prefix
//
// Conversion failures are only ever reported through this channel, so the
// URLs they carry must be safe to share.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//	logger.Warn("conversion failed",
//	    "url", "https://cdn.example/a.png?X-Amz-Signature=abc", // signature masked
//	)
//	slog.SetDefault(logger)
package log
