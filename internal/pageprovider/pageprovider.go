// Package pageprovider is the raw page provider: it obtains and releases
// zero-initialised, page-aligned virtual memory regions from the kernel.
// It is a thin wrapper over anonymous memory mapping and has no knowledge
// of page families, meta-blocks, or any allocator state — callers treat it
// as an external collaborator.
package pageprovider

import "errors"

// ErrAcquireFailed is returned when the kernel refuses the mapping request.
var ErrAcquireFailed = errors.New("pageprovider: acquire failed")

// SystemPageSize returns the platform's native page size, as reported by
// the kernel. Callers should capture this once at startup.
func SystemPageSize() int {
	return systemPageSize()
}

// Acquire reserves units contiguous, zero-filled, page-aligned pages from
// the kernel and returns the backing byte slice. The returned region's
// length is exactly units * SystemPageSize(). On failure it returns
// ErrAcquireFailed (wrapped with the underlying OS error) and a nil slice;
// callers must propagate this as an allocation failure, not retry forever.
func Acquire(units int) ([]byte, error) {
	return acquire(units)
}

// Release returns a region obtained from Acquire back to the kernel. buf
// must be exactly the slice returned by Acquire (same base address and
// length); partial or offset releases are not supported.
func Release(buf []byte) error {
	return release(buf)
}
