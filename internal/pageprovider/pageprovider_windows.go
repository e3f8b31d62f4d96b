//go:build windows

package pageprovider

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

func systemPageSize() int {
	var info windows.SystemInfo
	windows.GetSystemInfo(&info)
	return int(info.PageSize)
}

// acquire reserves and commits anonymous memory via VirtualAlloc, the
// Windows analogue of an anonymous MAP_PRIVATE mmap. VirtualAlloc already
// returns zero-filled pages.
func acquire(units int) ([]byte, error) {
	size := units * systemPageSize()
	if size <= 0 {
		return nil, fmt.Errorf("pageprovider: %w: non-positive size", ErrAcquireFailed)
	}

	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, fmt.Errorf("pageprovider: %w: %v", ErrAcquireFailed, err)
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

func release(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&buf[0]))
	return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}
