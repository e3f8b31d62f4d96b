package slabmem

import (
	"unsafe"

	"github.com/avikdas/slabmem/internal/auditmap"
	"github.com/avikdas/slabmem/internal/pageprovider"
)

// Allocator is a structure-aware slab allocator. It holds the registry
// of page families and the bookkeeping needed to find, split, and
// coalesce meta-blocks. An Allocator is not safe for concurrent use:
// every exported method must run to completion without another
// goroutine touching the same Allocator concurrently.
type Allocator struct {
	systemPageSize int
	registry       *registry
	audit          auditmap.Map
}

// New creates an Allocator sized to the host's native page size.
func New() *Allocator {
	pageSize := pageprovider.SystemPageSize()
	return &Allocator{
		systemPageSize: pageSize,
		registry:       newRegistry(pageSize),
	}
}

// auditRecord tracks one outstanding allocation for leak detection.
type auditRecord struct {
	family string
	size   uint32
}

// RegisterFamily declares a new named page family with the given fixed
// record size. recordSize must leave room for at least one record per
// page; registering the same name twice is a recoverable error rather
// than a fatal condition (see DESIGN.md).
func (a *Allocator) RegisterFamily(name string, recordSize uint32) error {
	if recordSize < MinRecordSize {
		return NewErrorf(ErrConfig, "record size must be at least %d bytes", MinRecordSize)
	}
	capacity := uint32(payloadCapacity(a.systemPageSize))
	if recordSize > capacity {
		return NewErrorf(ErrConfig, "record size %d exceeds page payload capacity of %d bytes", recordSize, capacity)
	}

	_, err := a.registry.register(name, recordSize)
	return err
}

// LookupFamily returns the Family registered under name, or nil.
func (a *Allocator) LookupFamily(name string) *Family {
	return a.registry.lookup(name)
}

// Allocate carves units contiguous records out of the named family's
// pages and returns a pointer to a zeroed payload region. The worst-fit
// free block in the family is used when it is large enough; otherwise
// a fresh page is requested from the page provider.
func (a *Allocator) Allocate(name string, units int) (unsafe.Pointer, error) {
	f := a.registry.lookup(name)
	if f == nil {
		return nil, NewErrorf(ErrUnknownFamily, "family %q is not registered", name)
	}
	if units < 1 {
		return nil, NewErrorf(ErrConfig, "units must be at least 1")
	}

	size := uint64(units) * uint64(f.recordSize)
	capacity := uint64(payloadCapacity(a.systemPageSize))
	if size > capacity {
		return nil, NewErrorf(ErrRequestTooLarge, "request of %d bytes exceeds page payload capacity of %d bytes", size, capacity)
	}

	var m *metaBlock
	biggest := freeIndexLargest(f)
	if biggest == nil || uint64(biggest.blockSize) < size {
		p, err := newFamilyPage(f, a.systemPageSize)
		if err != nil {
			return nil, err
		}
		m = &p.bootstrap
	} else {
		m = biggest
	}

	freeIndexRemove(f, m)
	splitForAllocation(f, m, uint32(size))

	payload := payloadOf(m)
	rec := &auditRecord{family: name, size: m.blockSize}
	a.audit.Set(uintptr(payload), unsafe.Pointer(rec))

	clearBytes(payload, int(m.blockSize))
	return payload, nil
}

// Free returns a previously allocated payload pointer to its family.
// Freeing a pointer that is not currently allocated (double free, or a
// pointer slabmem did not hand out) is a contract violation and panics
// rather than returning an error.
func (a *Allocator) Free(ptr unsafe.Pointer) error {
	if a.audit.Get(uintptr(ptr)) == nil {
		panic("slabmem: double free or invalid pointer")
	}
	m := metaOf(ptr)
	if m.isFree {
		panic("slabmem: double free or invalid pointer")
	}

	p := pageOf(m)
	f := p.family

	freeBlock(f, m, a.systemPageSize)
	a.audit.Delete(uintptr(ptr))
	return nil
}

// clearBytes zeroes n bytes starting at ptr.
func clearBytes(ptr unsafe.Pointer, n int) {
	buf := unsafe.Slice((*byte)(ptr), n)
	for i := range buf {
		buf[i] = 0
	}
}

// splitForAllocation carves size bytes out of the free block m, which
// must already have been removed from the free index. Depending on how
// much space remains, this either leaves m as an exact fit, creates a
// new free meta-block to hold the leftover (splitting off soft internal
// fragmentation when the leftover is smaller than one full record, or a
// full split otherwise), or silently absorbs the leftover into m as
// hard internal fragmentation when it is too small to host a meta-block
// header of its own.
func splitForAllocation(f *Family, m *metaBlock, size uint32) {
	remaining := m.blockSize - size
	m.isFree = false
	m.blockSize = size

	if remaining == 0 {
		return
	}

	metaSize := uint32(metaBlockHeaderSize)
	if remaining < metaSize {
		// Hard internal fragmentation: too small to host another
		// meta-block, so it is absorbed silently and recovered when
		// this block is freed.
		return
	}

	next := nextBySize(m)
	*next = metaBlock{
		isFree:    true,
		blockSize: remaining - metaSize,
		offset:    m.offset + metaSize + m.blockSize,
	}
	bindSplitBlock(m, next)
	freeIndexInsert(f, next)
}

// bindSplitBlock splices next into the chain immediately after m.
func bindSplitBlock(m, next *metaBlock) {
	next.next = m.next
	if m.next != nil {
		m.next.prev = next
	}
	m.next = next
	next.prev = m
}

// unionFreeBlocks merges two free, chain-adjacent blocks into one. Both
// must already have been removed from the free index; the merged block
// retains first's identity and absorbs second entirely.
func unionFreeBlocks(first, second *metaBlock) {
	first.blockSize += uint32(metaBlockHeaderSize) + second.blockSize
	first.next = second.next
	if second.next != nil {
		second.next.prev = first
	}
}

// freeBlock marks m free, reclaims any hard internal fragmentation
// between it and its right neighbor (or the page end), coalesces with a free chain neighbor on either side, reclaims
// the hosting page to the operating system if it becomes entirely
// empty, and otherwise re-seats the resulting block in the family's
// free index.
func freeBlock(f *Family, m *metaBlock, systemPageSize int) {
	m.isFree = true
	hostingPage := pageOf(m)

	next := m.next
	if next != nil {
		gap := uintptr(unsafe.Pointer(next)) - uintptr(unsafe.Pointer(nextBySize(m)))
		m.blockSize += uint32(gap)
	} else {
		endOfPage := pageEnd(hostingPage, systemPageSize)
		endOfBlock := uintptr(unsafe.Pointer(m)) + metaBlockHeaderSize + uintptr(m.blockSize)
		m.blockSize += uint32(endOfPage - endOfBlock)
	}

	result := m
	if next != nil && next.isFree {
		freeIndexRemove(f, next)
		unionFreeBlocks(result, next)
	}

	if prev := result.prev; prev != nil && prev.isFree {
		freeIndexRemove(f, prev)
		unionFreeBlocks(prev, result)
		result = prev
	}

	if hostingPage.isEmpty() {
		_ = deleteFamilyPage(f, hostingPage, systemPageSize)
		return
	}

	freeIndexInsert(f, result)
}
