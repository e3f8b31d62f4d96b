// Package slotbitmap tracks occupied/free slot indices with a bitset, used
// by the family registry to find a free family slot on a registry page
// without a linear scan of the slot array.
package slotbitmap

import "math/bits"

// Bitmap tracks slot allocation using uint64 words.
type Bitmap struct {
	words    []uint64
	numSlots uint32
	freeHint uint32
}

// New creates a bitmap capable of tracking the given number of slots, all
// initially free.
func New(numSlots uint32) *Bitmap {
	numWords := (numSlots + 63) / 64
	return &Bitmap{
		words:    make([]uint64, numWords),
		numSlots: numSlots,
	}
}

// Allocate finds and marks the first free slot starting from the hint.
// Returns (0, false) if every slot is occupied.
func (b *Bitmap) Allocate() (uint32, bool) {
	numWords := uint32(len(b.words))
	if numWords == 0 {
		return 0, false
	}

	startWord := b.freeHint / 64
	for i := uint32(0); i < numWords; i++ {
		wordIdx := (startWord + i) % numWords
		word := b.words[wordIdx]

		if word != ^uint64(0) {
			bitPos := bits.TrailingZeros64(^word)
			slot := wordIdx*64 + uint32(bitPos)
			if slot >= b.numSlots {
				continue
			}
			b.words[wordIdx] |= 1 << bitPos
			b.freeHint = slot + 1
			return slot, true
		}
	}

	return 0, false
}

// Free marks slot as available again.
func (b *Bitmap) Free(slot uint32) {
	if slot >= b.numSlots {
		return
	}
	wordIdx := slot / 64
	bitPos := slot % 64
	b.words[wordIdx] &^= 1 << bitPos
	if slot < b.freeHint {
		b.freeHint = slot
	}
}

// IsAllocated reports whether slot is currently occupied.
func (b *Bitmap) IsAllocated(slot uint32) bool {
	if slot >= b.numSlots {
		return false
	}
	return b.words[slot/64]&(1<<(slot%64)) != 0
}

// Count returns the number of occupied slots.
func (b *Bitmap) Count() uint32 {
	var count uint32
	for _, word := range b.words {
		count += uint32(bits.OnesCount64(word))
	}
	return count
}

// Capacity returns the total number of slots tracked.
func (b *Bitmap) Capacity() uint32 {
	return b.numSlots
}
