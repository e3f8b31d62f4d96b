package slabmem

import "unsafe"

// page is the header of one kernel-provided page reserved for a single
// family. It is overlaid directly on the byte slice returned by the
// page provider via unsafe.Pointer, the same overlay technique used for
// a B-tree page header on mmap'd file bytes — except here the fields
// are live Go pointers rather than serialized offsets, since nothing
// about this layout needs to be portable across processes or survive a
// restart.
//
// page.bootstrap is the head of the page's meta-block chain; there is no
// separate sentinel tail node.
type page struct {
	next, prev *page
	family     *Family
	id         uint64
	bootstrap  metaBlock
}

// pageHeaderSize is the fixed size of the page header, i.e. the
// compile-time offset from a page's base address to where its payload
// begins. It is the same for every page regardless of family.
const pageHeaderSize = unsafe.Sizeof(page{})

// bootstrapOffset is the offset of the bootstrap meta-block within its
// enclosing page header — the value every bootstrap meta-block's
// .offset field must hold, since page_base + M.offset == addressof(M)
// for every meta-block in the chain.
const bootstrapOffset = unsafe.Offsetof(page{}.bootstrap)

// metaBlock describes one contiguous run — allocated or free — inside a
// page's payload region. Successor/predecessor pointers thread the
// address-ordered intra-page chain; freePrev/freeNext thread the
// family's size-ordered free index and are only meaningful while isFree
// is true.
type metaBlock struct {
	isFree    bool
	blockSize uint32
	offset    uint32
	prev      *metaBlock
	next      *metaBlock
	freePrev  *metaBlock
	freeNext  *metaBlock
}

// metaBlockHeaderSize is the fixed size of a meta-block header.
const metaBlockHeaderSize = unsafe.Sizeof(metaBlock{})

// payloadCapacity returns the number of payload bytes available in a
// single page of the given system page size.
func payloadCapacity(systemPageSize int) int {
	return systemPageSize - int(pageHeaderSize)
}

// pageFromBuf overlays a page header on a freshly acquired buffer.
func pageFromBuf(buf []byte) *page {
	return (*page)(unsafe.Pointer(&buf[0]))
}

// bufFromPage reconstructs the original byte slice backing p, so it can
// be handed back to the page provider on release.
func bufFromPage(p *page, systemPageSize int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), systemPageSize)
}

// nextBySize computes the address a meta-block's successor would have if
// the chain were perfectly packed with no fragmentation. The discrepancy
// between this and m.next's actual address (when m.next is non-nil) is
// hard internal fragmentation.
func nextBySize(m *metaBlock) *metaBlock {
	addr := uintptr(unsafe.Pointer(m)) + metaBlockHeaderSize + uintptr(m.blockSize)
	return (*metaBlock)(unsafe.Pointer(addr))
}

// metaOf derives the meta-block header guarding a payload pointer
// previously returned to a caller.
func metaOf(payload unsafe.Pointer) *metaBlock {
	addr := uintptr(payload) - metaBlockHeaderSize
	return (*metaBlock)(unsafe.Pointer(addr))
}

// payloadOf returns the payload pointer a caller receives for meta-block m.
func payloadOf(m *metaBlock) unsafe.Pointer {
	return unsafe.Pointer(uintptr(unsafe.Pointer(m)) + metaBlockHeaderSize)
}

// pageOf derives the hosting page from one of its meta-blocks using the
// block's stored offset: page_base + M.offset == addressof(M).
func pageOf(m *metaBlock) *page {
	addr := uintptr(unsafe.Pointer(m)) - uintptr(m.offset)
	return (*page)(unsafe.Pointer(addr))
}

// pageEnd returns the address one past the last byte of p's page.
func pageEnd(p *page, systemPageSize int) uintptr {
	return uintptr(unsafe.Pointer(p)) + uintptr(systemPageSize)
}

// initPage wires up a freshly acquired page as a single free run spanning
// its whole payload.
func initPage(buf []byte, family *Family, id uint64, systemPageSize int) *page {
	p := pageFromBuf(buf)
	p.next = nil
	p.prev = nil
	p.family = family
	p.id = id
	p.bootstrap = metaBlock{
		isFree:    true,
		blockSize: uint32(payloadCapacity(systemPageSize)),
		offset:    uint32(bootstrapOffset),
	}
	return p
}

// isEmpty reports whether p holds no allocations at all.
func (p *page) isEmpty() bool {
	return p.bootstrap.isFree && p.bootstrap.next == nil && p.bootstrap.prev == nil
}
