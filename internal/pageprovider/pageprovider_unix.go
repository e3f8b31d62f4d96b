//go:build unix

package pageprovider

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func systemPageSize() int {
	return unix.Getpagesize()
}

// acquire maps anonymous, zero-filled memory directly from the kernel
// (MAP_ANON|MAP_PRIVATE), mirroring the original mmap(..., MAP_ANON|
// MAP_PRIVATE, -1, 0) call: there is no backing file descriptor.
func acquire(units int) ([]byte, error) {
	size := units * systemPageSize()
	if size <= 0 {
		return nil, fmt.Errorf("pageprovider: %w: non-positive size", ErrAcquireFailed)
	}

	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("pageprovider: %w: %v", ErrAcquireFailed, err)
	}
	return data, nil
}

func release(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	return unix.Munmap(buf)
}
