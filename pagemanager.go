package slabmem

import "github.com/avikdas/slabmem/internal/pageprovider"

// acquirePages requests n system pages worth of zeroed, fully-addressable
// bytes from the page provider, translating failures into the
// allocator's own error type.
func acquirePages(systemPageSize, n int) ([]byte, error) {
	buf, err := pageprovider.Acquire(n)
	if err != nil {
		return nil, wrapError(ErrPageProviderFailed, "failed to acquire pages from the operating system", err)
	}
	return buf, nil
}

func releasePages(buf []byte) error {
	if err := pageprovider.Release(buf); err != nil {
		return wrapError(ErrPageProviderFailed, "failed to release pages back to the operating system", err)
	}
	return nil
}

// newFamilyPage acquires a fresh page for f, initializes it as a single
// free run, prepends it to f's page list, and seats the bootstrap block
// in f's free index.
func newFamilyPage(f *Family, systemPageSize int) (*page, error) {
	buf, err := acquirePages(systemPageSize, 1)
	if err != nil {
		return nil, err
	}

	id := f.lastPageID
	f.lastPageID++
	p := initPage(buf, f, id, systemPageSize)

	p.next = f.firstPage
	if f.firstPage != nil {
		f.firstPage.prev = p
	}
	f.firstPage = p

	freeIndexInsert(f, &p.bootstrap)
	return p, nil
}

// deleteFamilyPage unlinks p from f's page list and releases its
// backing memory to the operating system. Callers must have already
// removed every meta-block belonging to p from f's free index.
func deleteFamilyPage(f *Family, p *page, systemPageSize int) error {
	if p.prev != nil {
		p.prev.next = p.next
	} else {
		f.firstPage = p.next
	}
	if p.next != nil {
		p.next.prev = p.prev
	}
	p.next = nil
	p.prev = nil

	return releasePages(bufFromPage(p, systemPageSize))
}
