// Package crawl fans the node prober out over the full node set with
// bounded concurrency and collects every outcome before returning.
//
// A crawl run is atomic as a unit of work: the caller gets exactly one
// outcome per distinct node, in input order, only after every probe has
// finished. Nothing is merged into the database mid-run, so a crash during
// the concurrent phase leaves the on-disk database untouched.
package crawl
