//go:build !unix

package fetch

// setHeapLimit is a no-op on platforms without setrlimit. The Go runtime
// soft limit installed by RunWorker still applies, but there is no hard OS
// ceiling; the body size check is the remaining bound.
func setHeapLimit(limit int64) error {
	return nil
}
