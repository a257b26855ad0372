// Package nodedb owns the persistent nodeinfo database: a single JSON file
// mapping node addresses to their most recent crawl record.
//
// The database accumulates across runs. A node that stops being discoverable
// keeps its last record forever; a node probed this run gets its record
// overwritten whether or not it answered. The file is loaded once at run
// start, mutated in memory only after the concurrent crawl phase has
// finished, and replaced wholesale at run end via a write-temp-then-rename
// so that a crash or failed write never destroys the previous state.
//
// Keys are written sorted with stable indentation, matching the artifact
// format of earlier crawlers, so repeated runs produce minimal diffs.
package nodedb
