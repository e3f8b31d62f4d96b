package slabmem

import (
	"fmt"
	"io"
)

// PrintRegisteredFamilies writes one line per registered family, giving
// its name and record size.
func (a *Allocator) PrintRegisteredFamilies(w io.Writer) {
	for rp := a.registry.head; rp != nil; rp = rp.next {
		bm := a.registry.bitmaps[rp]
		for i := uint32(0); i < bm.Capacity(); i++ {
			if !bm.IsAllocated(i) {
				continue
			}
			f := rp.familyAt(int(i))
			fmt.Fprintf(w, "Page Family : %s, Size = %d\n", f.Name(), f.RecordSize())
		}
	}
}

// blockUsage summarizes one family's meta-block chain as walked
// page-by-page, block-by-block, following next pointers rather than
// assuming any fixed stride between blocks.
type blockUsage struct {
	total, free, occupied uint32
	appMemoryUsage        uint32
}

func (a *Allocator) usageFor(f *Family) blockUsage {
	var u blockUsage
	for p := f.firstPage; p != nil; p = p.next {
		for m := &p.bootstrap; m != nil; m = m.next {
			u.total++
			if m.isFree {
				u.free++
			} else {
				u.occupied++
				u.appMemoryUsage += m.blockSize + uint32(metaBlockHeaderSize)
			}
		}
	}
	return u
}

// PrintBlockUsage writes, per registered family, the total/free/occupied
// block counts and the cumulative application memory in use. Each
// family's pages are walked by following the meta-block chain, never by
// assuming a fixed block stride.
func (a *Allocator) PrintBlockUsage(w io.Writer) {
	for rp := a.registry.head; rp != nil; rp = rp.next {
		bm := a.registry.bitmaps[rp]
		for i := uint32(0); i < bm.Capacity(); i++ {
			if !bm.IsAllocated(i) {
				continue
			}
			f := rp.familyAt(int(i))
			u := a.usageFor(f)
			fmt.Fprintf(w, "%-20s   TBC : %-4d    FBC : %-4d    OBC : %-4d AppMemUsage : %d\n",
				f.Name(), u.total, u.free, u.occupied, u.appMemoryUsage)
		}
	}
}

// PrintMemoryUsage writes a full page-by-page, block-by-block dump of
// one family (or every family, when name is empty), followed by a
// summary of total pages claimed from the operating system.
func (a *Allocator) PrintMemoryUsage(w io.Writer, name string) {
	fmt.Fprintf(w, "\nPage Size = %d Bytes\n", a.systemPageSize)

	var pagesInUse uint32
	for rp := a.registry.head; rp != nil; rp = rp.next {
		bm := a.registry.bitmaps[rp]
		for i := uint32(0); i < bm.Capacity(); i++ {
			if !bm.IsAllocated(i) {
				continue
			}
			f := rp.familyAt(int(i))
			if name != "" && f.Name() != name {
				continue
			}

			fmt.Fprintf(w, "vm_page_family : %s, struct size = %d\n", f.Name(), f.RecordSize())
			for p := f.firstPage; p != nil; p = p.next {
				pagesInUse++
				a.printPageDetails(w, p)
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintf(w, "# Of VM Pages in Use : %d (%d Bytes)\n", pagesInUse, uint64(pagesInUse)*uint64(a.systemPageSize))
}

func (a *Allocator) printPageDetails(w io.Writer, p *page) {
	fmt.Fprintf(w, "\tnext = %p, prev = %p\n", p.next, p.prev)
	fmt.Fprintf(w, "\tpage family = %s\n", p.family.Name())

	j := 0
	for m := &p.bootstrap; m != nil; m = m.next {
		state := "ALLOCATED"
		if m.isFree {
			state = "F R E E D"
		}
		fmt.Fprintf(w, "\t\t%p Block %-3d %s  block_size = %-6d  offset = %-6d  prev = %p  next = %p\n",
			m, j, state, m.blockSize, m.offset, m.prev, m.next)
		j++
	}
}
