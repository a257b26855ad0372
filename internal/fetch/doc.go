// Package fetch performs single HTTP GET requests against untrusted mesh
// nodes inside an isolation boundary.
//
// The threat model is a hostile or broken remote peer: a node may stream an
// unbounded response body to exhaust crawler memory, or accept a connection
// and never answer. Neither condition may affect the crawler process, so the
// request does not run in the caller's address space at all. Fetch re-executes
// the meshinfo binary as a short-lived child process whose allocator is capped
// with a hard resource limit; the child performs the request, buffers the
// response, and reports it back over stdout as JSON.
//
// A child that exceeds its memory ceiling dies inside its own address space.
// A child that outlives the wall-clock deadline is killed by the parent. In
// both cases, and for every transport-level failure, Fetch reports a plain
// error; callers are expected to treat any error as "no response" and press
// on with the next node. There are no retries.
package fetch
