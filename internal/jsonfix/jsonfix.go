package jsonfix

import "regexp"

// Nodeinfo documents are written by hand, and a surprising number of node
// operators ship near-JSON rather than JSON. The two mistakes below account
// for almost all of the otherwise-unparseable documents seen in the wild,
// and both can be corrected with a purely textual rewrite.
var (
	// trailingCommaRe matches one or more commas directly before a closing
	// brace or bracket, e.g. `{"a": 1,}` or `[1, 2,,,]`.
	trailingCommaRe = regexp.MustCompile(`,+(\s*[}\]])`)

	// missingColonRe matches a closing quote followed by whitespace and the
	// start of a value, the signature of `"key" "value"` where the author
	// forgot the colon.
	missingColonRe = regexp.MustCompile(`"\s+([a-zA-Z0-9"])`)
)

// Fix rewrites common human-authored JSON mistakes so the result is more
// likely to parse: trailing commas before a container close are removed, and
// a missing colon between a key and its value is inserted.
//
// Both rewrites are heuristic. They are idempotent on valid JSON that does
// not contain the offending patterns, but they can alter unusually formatted
// input that was technically valid. For untrusted nodeinfo documents this is
// an accepted tradeoff: a mangled document fails the JSON parse and is
// recorded as absent, which is where it would have ended up anyway.
func Fix(s string) string {
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = missingColonRe.ReplaceAllString(s, `":$1`)
	return s
}
