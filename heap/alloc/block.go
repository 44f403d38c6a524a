package alloc

import "github.com/edward-official/week07-jungle/internal/word"

// Block codec: pure arithmetic over header/footer words. A block is addressed
// by its payload offset bp; its header word sits at bp-4 and its footer word
// at bp+size-8. All functions assume well-formed blocks — bounds are
// guaranteed by the prologue/epilogue sentinels, not checked here.

const (
	// blockOverhead is the header plus footer cost of every block.
	blockOverhead = 2 * word.Size

	// minBlockSize is the smallest legal block: header (4) + footer (4) +
	// pred link (8) + succ link (8), already 8-byte aligned.
	minBlockSize = 24

	// prologuePayload is the payload offset of the prologue sentinel.
	prologuePayload = word.DSize

	// firstBlock is the payload offset of the first real block.
	firstBlock = 2 * word.DSize
)

// pack encodes a size and allocation flag into one header/footer word.
// size must be a multiple of 8 so the low bits are free for the flag.
func pack(size int, allocated bool) uint32 {
	w := uint32(size)
	if allocated {
		w |= 1
	}
	return w
}

// wordSize extracts the block size from a header/footer word at off.
func wordSize(data []byte, off int) int {
	return int(word.U32(data, off) &^ 0x7)
}

// wordAllocated extracts the allocation flag from a header/footer word at off.
func wordAllocated(data []byte, off int) bool {
	return word.U32(data, off)&1 != 0
}

// hdr returns the header word offset of the block at bp.
func hdr(bp int) int {
	return bp - word.Size
}

// blockSize returns the total size of the block at bp, overhead included.
func blockSize(data []byte, bp int) int {
	return wordSize(data, hdr(bp))
}

// blockAllocated reports whether the block at bp is allocated.
func blockAllocated(data []byte, bp int) bool {
	return wordAllocated(data, hdr(bp))
}

// nextBlock returns the payload offset of the address successor.
// The epilogue stops traversal: nextBlock of the last block lands on the
// epilogue payload, whose header reads as size 0, allocated.
func nextBlock(data []byte, bp int) int {
	return bp + blockSize(data, bp)
}

// prevBlock returns the payload offset of the address predecessor, read from
// the footer word immediately preceding bp's header. Precondition: bp is not
// the first block after the prologue unless the prologue itself is wanted.
func prevBlock(data []byte, bp int) int {
	return bp - wordSize(data, bp-word.DSize)
}

// setBlock rewrites both the header and footer of the block at bp.
// Allocated blocks keep a live footer too: coalescing reads the predecessor's
// footer to learn its allocation flag without walking the heap.
func setBlock(data []byte, bp, size int, allocated bool) {
	w := pack(size, allocated)
	word.PutU32(data, hdr(bp), w)
	word.PutU32(data, bp+size-word.DSize, w)
}
