// Package slabmem is a structure-aware slab allocator built directly on
// top of anonymous virtual-memory pages obtained from the kernel.
//
// Callers register named "page families", each with a fixed record size;
// subsequent allocations against a family carve fixed-size records out of
// pages reserved exclusively for that family. Adjacent freed records are
// coalesced automatically, fully empty pages are returned to the kernel,
// and free regions are chosen with a worst-fit policy so that the
// remaining free space in a family stays concentrated in a small number
// of large, reusable blocks.
//
// The package is single-threaded and cooperative: there is no internal
// locking, and all public entry points run to completion without
// suspension points. Callers sharing an Allocator across goroutines must
// provide their own mutual exclusion.
//
// Basic usage:
//
//	a := slabmem.New()
//	if err := a.RegisterFamily("Employee", 64); err != nil {
//	    log.Fatal(err)
//	}
//
//	ptr, err := a.Allocate("Employee", 1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// ... use ptr as an unsafe.Pointer to a zeroed 64-byte record ...
//
//	if err := a.Free(ptr); err != nil {
//	    log.Fatal(err)
//	}
//
// A process-wide default Allocator is also reachable through the
// package-level Init/RegisterFamily/Allocate/Free functions, matching the
// single global memory manager of the C implementation this package is
// modeled on.
package slabmem
