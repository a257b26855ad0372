// Package log configures structured logging for the crawler, built on top
// of the standard slog package.
//
// Everything interesting the crawler logs (node addresses, URLs, decode
// errors, response fragments) originates from untrusted remote peers. A
// hostile nodeinfo document can embed terminal escape sequences to corrupt
// the operator's console, or be megabytes long and drown the log. The
// SanitizeHandler wraps any slog.Handler and neutralizes both: control
// characters are stripped from string attributes and oversized values are
// truncated before the record reaches the underlying handler.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
