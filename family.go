package slabmem

import (
	"unsafe"

	"github.com/avikdas/slabmem/internal/slotbitmap"
)

// Family describes one registered record size: every page reserved for
// this family is carved exclusively into records of recordSize bytes.
// A Family lives inside a registryPage's slot array, never on the heap
// on its own, so that pointer equality of *Family values is stable for
// the lifetime of the allocator.
type Family struct {
	name       [MaxFamilyNameLen]byte
	nameLen    uint8
	recordSize uint32
	firstPage  *page
	lastPageID uint64

	freeIndexHead *metaBlock
}

// setName copies name into the fixed-size name buffer, truncating if
// necessary.
func (f *Family) setName(name string) {
	n := copy(f.name[:], name)
	f.nameLen = uint8(n)
}

// Name returns the family's registered name.
func (f *Family) Name() string {
	return string(f.name[:f.nameLen])
}

// RecordSize returns the fixed record size, in bytes, of this family.
func (f *Family) RecordSize() uint32 {
	return f.recordSize
}

// registryPage is a page reserved for holding Family slots rather than
// allocation payload. Its header is lighter than a data page's: a
// registry page never hosts a meta-block chain, so there is no
// bootstrap block and no family back-pointer.
type registryPage struct {
	next *registryPage
	id   uint64
}

const registryPageHeaderSize = unsafe.Sizeof(registryPage{})

// familiesPerRegistryPage returns how many Family slots fit in one
// registry page of the given system page size.
func familiesPerRegistryPage(systemPageSize int) int {
	return (systemPageSize - int(registryPageHeaderSize)) / int(unsafe.Sizeof(Family{}))
}

func registryPageFromBuf(buf []byte) *registryPage {
	return (*registryPage)(unsafe.Pointer(&buf[0]))
}

// familyAt returns a pointer to the i'th Family slot on the page.
func (rp *registryPage) familyAt(i int) *Family {
	base := uintptr(unsafe.Pointer(rp)) + registryPageHeaderSize
	addr := base + uintptr(i)*unsafe.Sizeof(Family{})
	return (*Family)(unsafe.Pointer(addr))
}

// registry is the collection of all registered families, stored across
// one or more registry pages and indexed by name for lookup plus a
// slotbitmap per page for fast allocation of a new slot.
type registry struct {
	systemPageSize int
	head           *registryPage
	bitmaps        map[*registryPage]*slotbitmap.Bitmap
	byName         map[string]*Family
	nextPageID     uint64
}

func newRegistry(systemPageSize int) *registry {
	return &registry{
		systemPageSize: systemPageSize,
		bitmaps:        make(map[*registryPage]*slotbitmap.Bitmap),
		byName:         make(map[string]*Family),
	}
}

// lookup returns the family registered under name, or nil.
func (r *registry) lookup(name string) *Family {
	return r.byName[name]
}

// register reserves a new Family slot for name and recordSize. It scans
// existing registry pages for a free slot before acquiring a new one,
// mirroring how mm_instantiate_new_page_family walks the family page
// list looking for MM_MAX_FAMILIES_PER_PAGE headroom before mapping a
// fresh family page.
func (r *registry) register(name string, recordSize uint32) (*Family, error) {
	if _, exists := r.byName[name]; exists {
		return nil, NewErrorf(ErrDuplicateFamily, "family %q is already registered", name)
	}

	perPage := familiesPerRegistryPage(r.systemPageSize)
	if perPage < 1 {
		return nil, NewErrorf(ErrConfig, "system page size %d too small to hold a family slot", r.systemPageSize)
	}

	for rp := r.head; rp != nil; rp = rp.next {
		bm := r.bitmaps[rp]
		if slot, ok := bm.Allocate(); ok {
			f := rp.familyAt(int(slot))
			*f = Family{}
			f.setName(name)
			f.recordSize = recordSize
			r.byName[name] = f
			return f, nil
		}
	}

	rp, bm, err := r.newRegistryPage()
	if err != nil {
		return nil, err
	}
	slot, ok := bm.Allocate()
	if !ok {
		return nil, NewError(ErrConfig)
	}
	f := rp.familyAt(int(slot))
	*f = Family{}
	f.setName(name)
	f.recordSize = recordSize
	r.byName[name] = f
	return f, nil
}

func (r *registry) newRegistryPage() (*registryPage, *slotbitmap.Bitmap, error) {
	buf, err := acquirePages(r.systemPageSize, 1)
	if err != nil {
		return nil, nil, err
	}
	rp := registryPageFromBuf(buf)
	rp.next = r.head
	rp.id = r.nextPageID
	r.nextPageID++
	r.head = rp

	perPage := familiesPerRegistryPage(r.systemPageSize)
	bm := slotbitmap.New(uint32(perPage))
	r.bitmaps[rp] = bm
	return rp, bm, nil
}
