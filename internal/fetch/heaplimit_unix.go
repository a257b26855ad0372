//go:build unix

package fetch

import "syscall"

// setHeapLimit installs a hard, process-wide allocator ceiling.
//
// RLIMIT_DATA rather than RLIMIT_AS: the Go runtime reserves large virtual
// address ranges up front, which an address-space limit would count against.
// On Linux 4.7+ RLIMIT_DATA also covers private anonymous mappings, which is
// where the Go heap lives, so allocation past the ceiling fails for real.
func setHeapLimit(limit int64) error {
	lim := syscall.Rlimit{
		Cur: uint64(limit),
		Max: uint64(limit),
	}
	return syscall.Setrlimit(syscall.RLIMIT_DATA, &lim)
}
