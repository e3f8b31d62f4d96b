package slabmem

import (
	"io"
	"unsafe"
)

// defaultAllocator backs the package-level facade functions, giving
// callers a single process-wide allocator they don't have to construct
// or thread through explicitly.
var defaultAllocator *Allocator

// Init (re)creates the process-wide default Allocator. Calling it again
// discards whatever the default Allocator previously tracked; it does
// not release already-mapped pages back to the operating system.
func Init() {
	defaultAllocator = New()
}

func ensureDefault() *Allocator {
	if defaultAllocator == nil {
		defaultAllocator = New()
	}
	return defaultAllocator
}

// RegisterFamily registers name/recordSize with the process-wide
// default Allocator. See (*Allocator).RegisterFamily.
func RegisterFamily(name string, recordSize uint32) error {
	return ensureDefault().RegisterFamily(name, recordSize)
}

// Allocate allocates from the process-wide default Allocator. See
// (*Allocator).Allocate.
func Allocate(name string, units int) (unsafe.Pointer, error) {
	return ensureDefault().Allocate(name, units)
}

// Free frees a pointer previously returned by Allocate, against the
// process-wide default Allocator. See (*Allocator).Free.
func Free(ptr unsafe.Pointer) error {
	return ensureDefault().Free(ptr)
}

// PrintRegisteredFamilies prints the process-wide default Allocator's
// registered families.
func PrintRegisteredFamilies(w io.Writer) {
	ensureDefault().PrintRegisteredFamilies(w)
}

// PrintBlockUsage prints the process-wide default Allocator's block
// usage summary.
func PrintBlockUsage(w io.Writer) {
	ensureDefault().PrintBlockUsage(w)
}

// PrintMemoryUsage prints the process-wide default Allocator's detailed
// memory usage, optionally filtered to a single family name.
func PrintMemoryUsage(w io.Writer, name string) {
	ensureDefault().PrintMemoryUsage(w, name)
}

// CheckForLeaks reports outstanding allocations on the process-wide
// default Allocator.
func CheckForLeaks(w io.Writer) bool {
	return ensureDefault().CheckForLeaks(w)
}
