// Package nodes discovers the set of mesh node addresses to crawl.
//
// Discovery is pluggable: each Source returns a list of opaque node
// addresses from one public registry, and Discover unions and deduplicates
// across all configured sources. Two sources are built in, one reading a
// network map graph and one reading an attestation registry, mirroring the
// public cjdns node databases. A file-backed source exists for offline runs
// and tests.
//
// Discovery endpoints are operated by the community rather than by arbitrary
// nodes, so they are fetched with a plain bounded HTTP client instead of the
// per-node sandbox. Their output is still just a list of strings; nothing
// downstream trusts it beyond that.
package nodes
