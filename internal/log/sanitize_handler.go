package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode"
)

// MaxValueLength is the longest string attribute value the handler will
// emit. Longer values are cut and suffixed with TruncationMark. Real
// nodeinfo fields fit comfortably; only hostile or broken documents don't.
const MaxValueLength = 512

// TruncationMark is appended to values cut at MaxValueLength.
const TruncationMark = "...(truncated)"

// SanitizeHandler wraps an slog.Handler to neutralize untrusted data in log
// records. String attribute values have control characters stripped and are
// truncated to MaxValueLength before being passed on.
//
// Design decision: We use a handler wrapper rather than sanitizing at each
// call site because:
//  1. Every log site handling remote data would otherwise need to remember
//  2. It integrates seamlessly with standard slog APIs
//  3. It works with any underlying handler (text, JSON, etc.)
type SanitizeHandler struct {
	// handler is the underlying slog handler that receives clean records.
	handler slog.Handler
}

// NewSanitizeHandler creates a SanitizeHandler wrapping the given handler.
// If handler is nil, the returned SanitizeHandler uses slog.Default().Handler().
func NewSanitizeHandler(handler slog.Handler) *SanitizeHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SanitizeHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *SanitizeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it to the underlying
// handler. The message itself is sanitized too: messages are written by us,
// but formatting a remote value into one is an easy mistake to make.
func (h *SanitizeHandler) Handle(ctx context.Context, r slog.Record) error {
	clean := slog.NewRecord(r.Time, r.Level, sanitizeString(r.Message), r.PC)

	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(h.sanitizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, clean)
}

// WithAttrs returns a new handler with the given attributes added, sanitized.
func (h *SanitizeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cleaned := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		cleaned[i] = h.sanitizeAttr(a)
	}
	return &SanitizeHandler{handler: h.handler.WithAttrs(cleaned)}
}

// WithGroup returns a new handler with the given group name.
func (h *SanitizeHandler) WithGroup(name string) slog.Handler {
	return &SanitizeHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr sanitizes a single attribute, recursively handling groups.
func (h *SanitizeHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		cleaned := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			cleaned[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(cleaned...)}
	case slog.KindString:
		return slog.String(sanitizeString(a.Key), sanitizeString(a.Value.String()))
	default:
		return slog.Attr{Key: sanitizeString(a.Key), Value: a.Value}
	}
}

// sanitizeString strips control characters and truncates oversized values.
func sanitizeString(s string) string {
	if containsControl(s) {
		var b strings.Builder
		b.Grow(len(s))
		for _, r := range s {
			if unicode.IsControl(r) && r != '\n' && r != '\t' {
				continue
			}
			b.WriteRune(r)
		}
		s = b.String()
	}
	if len(s) > MaxValueLength {
		s = s[:MaxValueLength] + TruncationMark
	}
	return s
}

// containsControl reports whether s contains a control character other than
// newline or tab. Split out so the common clean case allocates nothing.
func containsControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return true
		}
	}
	return false
}

// NewLogger creates a new slog.Logger with sanitizing text output.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Info
//
// Returns a *slog.Logger suitable for slog.SetDefault().
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	return slog.New(NewSanitizeHandler(slog.NewTextHandler(w, opts)))
}

// NewJSONLogger creates a new slog.Logger with sanitizing JSON output.
// Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	return slog.New(NewSanitizeHandler(slog.NewJSONHandler(w, opts)))
}
