package slabmem

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/avikdas/slabmem/auditlog"
)

// CheckForLeaks walks the allocator's outstanding-allocation audit map
// and reports, to w, every payload pointer that was handed out by
// Allocate but never returned through Free. It returns true if the
// allocator is clean.
func (a *Allocator) CheckForLeaks(w io.Writer) bool {
	clean := true
	a.audit.ForEach(func(ptr uintptr, recPtr unsafe.Pointer) {
		rec := (*auditRecord)(recPtr)
		fmt.Fprintf(w, "Warning: Memory leak detected. Block of size %d (family %s) was not freed.\n", rec.size, rec.family)
		clean = false
	})
	if clean {
		fmt.Fprintln(w, "No memory leaks detected.")
	}
	return clean
}

// OutstandingAllocations returns the number of allocations currently
// tracked as live by the audit map.
func (a *Allocator) OutstandingAllocations() int {
	return a.audit.Len()
}

// ExportAudit snapshots every currently outstanding allocation to a
// durable database at path, for postmortem leak inspection. It does not
// affect the allocator's in-memory state.
func (a *Allocator) ExportAudit(path string) error {
	snapshot := make([]auditlog.Record, 0, a.audit.Len())
	a.audit.ForEach(func(ptr uintptr, recPtr unsafe.Pointer) {
		rec := (*auditRecord)(recPtr)
		snapshot = append(snapshot, auditlog.Record{
			Family: rec.family,
			Size:   rec.size,
			Addr:   uint64(ptr),
		})
	})
	return auditlog.Export(path, snapshot)
}
