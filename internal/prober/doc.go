// Package prober answers one question per mesh node: does it publish a
// usable nodeinfo document, and if so, what does it contain?
//
// A probe fetches http://[<address>]/nodeinfo.json through the sandboxed
// fetcher, refuses to parse markup content types, repairs common JSON
// authoring mistakes, and parses what remains. Every failure mode collapses
// to the same outcome, an absent document; probing never fails a crawl run.
package prober
