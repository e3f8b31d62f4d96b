package slabmem

// The free index is a per-family ordered list of free meta-blocks, kept
// sorted by descending block size so the largest free block is always
// the head. It is threaded through the intrusive freePrev/freeNext
// fields on metaBlock itself, the Go analogue of an embedded linked-list
// node.

// freeIndexInsert inserts m into the family's free index, walking from
// the head and stopping at the first entry strictly smaller than m —
// ties are broken by insertion order (m lands after equal-sized entries
// already present).
func freeIndexInsert(f *Family, m *metaBlock) {
	m.freePrev = nil
	m.freeNext = nil

	if f.freeIndexHead == nil {
		f.freeIndexHead = m
		return
	}

	cur := f.freeIndexHead
	var prev *metaBlock
	for cur != nil && cur.blockSize >= m.blockSize {
		prev = cur
		cur = cur.freeNext
	}

	m.freeNext = cur
	m.freePrev = prev
	if cur != nil {
		cur.freePrev = m
	}
	if prev != nil {
		prev.freeNext = m
	} else {
		f.freeIndexHead = m
	}
}

// freeIndexRemove unlinks m from the family's free index. m need not be
// the head. Callers must only call this for blocks they know are
// currently members of the index.
func freeIndexRemove(f *Family, m *metaBlock) {
	if m.freePrev != nil {
		m.freePrev.freeNext = m.freeNext
	} else {
		f.freeIndexHead = m.freeNext
	}
	if m.freeNext != nil {
		m.freeNext.freePrev = m.freePrev
	}
	m.freePrev = nil
	m.freeNext = nil
}

// freeIndexLargest returns the biggest free block in the family's free
// index, or nil if it is empty. O(1): the head of the descending-sorted
// list is always the largest.
func freeIndexLargest(f *Family) *metaBlock {
	return f.freeIndexHead
}
