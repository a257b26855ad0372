package fetch

import (
	"mime"
	"net/http"
	"strings"
)

// Response is the outcome of a sandboxed request, as reported by the child
// process. It carries everything the prober needs and nothing more; the
// connection itself never leaves the sandbox.
type Response struct {
	// Status is the HTTP response status code.
	Status int `json:"status"`

	// Headers contains the response headers with canonicalized keys.
	Headers map[string][]string `json:"headers"`

	// Body is the buffered response body. Its size is bounded by the
	// sandbox memory ceiling.
	Body []byte `json:"body"`
}

// OK reports whether the status code indicates success (anything below 400).
func (r *Response) OK() bool {
	return r.Status > 0 && r.Status < 400
}

// Header returns the first value of the named header, or "" if absent.
// Lookup uses canonical header name matching.
func (r *Response) Header(name string) string {
	return http.Header(r.Headers).Get(name)
}

// ContentType returns the response media type with any parameters (such as
// charset) stripped and the type lowercased. Returns "" when the header is
// absent or unparseable beyond recovery.
func (r *Response) ContentType() string {
	ct := r.Header("Content-Type")
	if ct == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		// Hostile peers send malformed Content-Type values too. Fall back
		// to everything before the first parameter separator.
		mediaType, _, _ = strings.Cut(ct, ";")
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
