// Package jsonfix repairs common human-authored mistakes in nodeinfo JSON
// documents before parsing.
//
// Node operators write nodeinfo.json by hand, and many documents in the wild
// contain trailing commas or a missing colon between a key and its value.
// Rather than rejecting such documents, the crawler applies the best-effort
// textual fixes in this package and then attempts a normal JSON parse.
//
// The fixes are deliberately minimal and order-independent:
//
//	{"a": 1,}   -> {"a": 1}
//	{"a": 1,,,} -> {"a": 1}
//	{"a" 1}     -> {"a":1}
//
// No semantic validation is performed; a document that still fails to parse
// after repair is treated as absent by the caller.
package jsonfix
