package alloc

import (
	"fmt"
	"math"
	"os"

	"github.com/edward-official/week07-jungle/heap"
	"github.com/edward-official/week07-jungle/internal/word"
)

// Debug flag - set to true to enable verbose logging (compile-time toggle).
const debugAlloc = false

// Runtime flag for allocation logging - controlled by HEAP_LOG_ALLOC env var.
var logAlloc = os.Getenv("HEAP_LOG_ALLOC") != ""

// Allocator manages one heap.Region as a sequence of blocks with a
// segregated free-list index. Not safe for concurrent use.
type Allocator struct {
	mem *heap.Region

	// Size class lookup table and one bucket head per class.
	// heads[i] is the payload offset of the bucket's most recently freed
	// block, 0 when the bucket is empty.
	table *sizeClassTable
	heads []int

	policy Policy
	chunk  int

	stats Stats
}

// New initializes an allocator over a fresh region: writes the prologue and
// epilogue sentinels and performs one chunk-sized extension so the first
// request is served without growing. The region must be empty — the block
// layout is anchored at offset zero.
func New(mem *heap.Region, cfg *Config) (*Allocator, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	chunk := cfg.ChunkSize
	if chunk == 0 {
		chunk = DefaultConfig.ChunkSize
	}
	smallest := cfg.SmallestClass
	if smallest == 0 {
		smallest = DefaultConfig.SmallestClass
	}
	largest := cfg.LargestClass
	if largest == 0 {
		largest = DefaultConfig.LargestClass
	}
	if mem.Len() != 0 {
		return nil, ErrRegionInUse
	}

	table := newSizeClassTable(smallest, largest)
	a := &Allocator{
		mem:    mem,
		table:  table,
		heads:  make([]int, table.numClasses()),
		policy: cfg.Policy,
		chunk:  chunk,
	}
	if err := a.bootstrap(); err != nil {
		return nil, err
	}
	return a, nil
}

// bootstrap establishes the sentinel layout and the initial free block.
func (a *Allocator) bootstrap() error {
	if _, err := a.mem.Extend(4 * word.Size); err != nil {
		return fmt.Errorf("alloc: initial heap: %w", err)
	}
	data := a.mem.Bytes()

	// Offset 0 holds the 4-byte alignment padding (already zero).
	word.PutU32(data, hdr(prologuePayload), pack(word.DSize, true)) // prologue header
	word.PutU32(data, prologuePayload, pack(word.DSize, true))      // prologue footer
	word.PutU32(data, hdr(firstBlock), pack(0, true))               // epilogue header

	if _, err := a.extendHeap(a.chunk); err != nil {
		return fmt.Errorf("alloc: initial extension: %w", err)
	}
	return nil
}

// Reset discards every allocation and re-initializes the heap. Prior
// references become invalid. Intended for test isolation; not a recovery
// operation.
func (a *Allocator) Reset() error {
	a.mem.Reset()
	for i := range a.heads {
		a.heads[i] = 0
	}
	a.stats = Stats{}
	return a.bootstrap()
}

// Alloc allocates n payload bytes and returns the block reference plus the
// caller-owned payload slice. n == 0 is a defined no-op returning the null
// reference. The payload may be larger than n (internal fragmentation); its
// address is always 8-byte aligned.
func (a *Allocator) Alloc(n int) (Ref, []byte, error) {
	a.stats.AllocCalls++
	if n == 0 {
		return 0, nil, nil
	}
	if n < 0 {
		return 0, nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}

	asize := adjustSize(n)
	if asize < n { // n + overhead overflowed int
		return 0, nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	if asize > a.mem.Cap() {
		return 0, nil, fmt.Errorf("%w: need %d bytes, region capacity %d",
			ErrNoSpace, asize, a.mem.Cap())
	}
	bp := a.findFit(asize)
	if bp == 0 {
		if err := a.extendForMiss(asize); err != nil {
			return 0, nil, fmt.Errorf("%w: %w", ErrNoSpace, err)
		}
		bp = a.findFit(asize)
		if bp == 0 {
			// The extension is sized to satisfy the pending request, so a
			// second miss is an allocator defect, not a runtime condition.
			if debugAlloc {
				debugLogf("Alloc(%d): no fit after extension", n)
			}
			return 0, nil, ErrNoSpace
		}
	}

	data := a.mem.Bytes()
	a.removeFree(bp, blockSize(data, bp))
	a.place(bp, asize)

	size := blockSize(data, bp)
	a.stats.BytesAllocated += int64(size)
	return Ref(bp), data[bp : bp+size-word.DSize], nil
}

// Free releases the block at ref and merges it with any free neighbor.
// A null reference is a no-op. Out-of-range or misaligned references fail
// with ErrBadRef; anything subtler (double free, foreign payload offset) is
// undefined behavior by contract.
func (a *Allocator) Free(ref Ref) error {
	a.stats.FreeCalls++
	if ref == 0 {
		return nil
	}
	bp := int(ref)
	if bp < firstBlock || bp%word.DSize != 0 || bp+word.DSize > a.mem.Len() {
		return ErrBadRef
	}

	data := a.mem.Bytes()
	size := blockSize(data, bp)
	a.stats.BytesFreed += int64(size)

	setBlock(data, bp, size, false)
	clearLinks(data, bp)
	a.coalesce(bp)
	return nil
}

// Realloc resizes the block at ref to n payload bytes.
//
//	ref == 0        behaves as Alloc(n)
//	n == 0          behaves as Free(ref) and returns the null reference
//
// Otherwise it shrinks in place, grows in place by absorbing a free
// successor, or relocates and copies. On relocation failure the original
// block is untouched and still valid.
func (a *Allocator) Realloc(ref Ref, n int) (Ref, []byte, error) {
	a.stats.ReallocCalls++
	if ref == 0 {
		return a.Alloc(n)
	}
	if n == 0 {
		return 0, nil, a.Free(ref)
	}
	if n < 0 {
		return 0, nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	bp := int(ref)
	if bp < firstBlock || bp%word.DSize != 0 || bp+word.DSize > a.mem.Len() {
		return 0, nil, ErrBadRef
	}

	asize := adjustSize(n)
	if asize < n { // n + overhead overflowed int
		return 0, nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}

	data := a.mem.Bytes()
	oldSize := blockSize(data, bp)

	// Shrink or exact fit: keep the address, free the remainder when it can
	// stand as a block of its own.
	if asize <= oldSize {
		if rem := oldSize - asize; rem >= minBlockSize {
			a.stats.SplitCount++
			setBlock(data, bp, asize, true)
			rbp := bp + asize
			setBlock(data, rbp, rem, false)
			clearLinks(data, rbp)
			a.coalesce(rbp)
		}
		return ref, a.payload(data, bp), nil
	}

	// Grow in place: absorb the address successor when it is free and the
	// combined span covers the request. Avoids the copy.
	nbp := nextBlock(data, bp)
	if !blockAllocated(data, nbp) {
		capacity := oldSize + blockSize(data, nbp)
		if capacity >= asize {
			a.removeFree(nbp, blockSize(data, nbp))
			if rem := capacity - asize; rem >= minBlockSize {
				a.stats.SplitCount++
				setBlock(data, bp, asize, true)
				rbp := bp + asize
				setBlock(data, rbp, rem, false)
				clearLinks(data, rbp)
				// The remainder's successor was the absorbed block's
				// successor, allocated by the coalescing invariant, so a
				// plain insert suffices.
				a.insertFree(rbp, rem)
			} else {
				setBlock(data, bp, capacity, true)
			}
			a.stats.InPlaceRealloc++
			return ref, a.payload(data, bp), nil
		}
	}

	// Relocate: fresh block, copy min(old payload, n), release the old one.
	newRef, buf, err := a.Alloc(n)
	if err != nil {
		return 0, nil, err
	}
	copyLen := oldSize - blockOverhead
	if n < copyLen {
		copyLen = n
	}
	copy(buf, data[bp:bp+copyLen])
	if err := a.Free(ref); err != nil {
		return 0, nil, err
	}
	a.stats.RelocatedRealloc++
	return newRef, buf, nil
}

// Payload returns the caller-owned bytes of an allocated block. The slice
// covers the whole block payload, which may exceed the requested size.
// Precondition: ref was returned by Alloc/Realloc and not yet freed.
func (a *Allocator) Payload(ref Ref) []byte {
	data := a.mem.Bytes()
	bp := int(ref)
	return data[bp : bp+blockSize(data, bp)-word.DSize]
}

// Stats returns a copy of the internal counters.
func (a *Allocator) Stats() Stats {
	return a.stats
}

// ============================================================================
// Internal helpers
// ============================================================================

// adjustSize converts a payload request into a block size: add header/footer
// overhead, align to 8, and raise to the minimum block size.
func adjustSize(n int) int {
	asize := word.Align8(n + blockOverhead)
	if asize < minBlockSize {
		asize = minBlockSize
	}
	return asize
}

// findFit searches the free-list index for a block of at least asize bytes.
// Buckets are scanned from the request's class upward. Under BestFit the
// candidate with the least waste wins, with an exact match returning
// immediately; under FirstFit the first fitting block wins. Returns the
// payload offset, or 0 on a miss. The block stays indexed — search does not
// imply removal.
func (a *Allocator) findFit(asize int) int {
	data := a.mem.Bytes()
	best := 0
	bestWaste := math.MaxInt

	for sc := a.table.classify(asize); sc < len(a.heads); sc++ {
		for bp := a.heads[sc]; bp != 0; bp = succOf(data, bp) {
			waste := blockSize(data, bp) - asize
			if waste < 0 {
				continue
			}
			if a.policy == FirstFit || waste == 0 {
				return bp
			}
			if waste < bestWaste {
				best, bestWaste = bp, waste
			}
		}
	}
	return best
}

// place marks the block at bp allocated for a request of asize bytes,
// splitting off the remainder when it meets the minimum block size.
// Precondition: the block has been removed from the free-list index.
func (a *Allocator) place(bp, asize int) {
	data := a.mem.Bytes()
	csize := blockSize(data, bp)

	if csize-asize >= minBlockSize {
		a.stats.SplitCount++
		setBlock(data, bp, asize, true)
		rbp := bp + asize
		setBlock(data, rbp, csize-asize, false)
		clearLinks(data, rbp)
		a.insertFree(rbp, csize-asize)
	} else {
		// Consume whole; the gap is internal fragmentation.
		setBlock(data, bp, csize, true)
	}
}

// coalesce merges the free block at bp with any free address neighbor,
// inserts the result into the free-list index, and returns its payload
// offset (which moves backward when the predecessor absorbs it). Neighbors
// are removed from the index before their bytes are merged away so no stale
// entry can point into the merged block. The sentinels bound both checks.
func (a *Allocator) coalesce(bp int) int {
	data := a.mem.Bytes()
	size := blockSize(data, bp)

	if !wordAllocated(data, bp-word.DSize) { // predecessor's footer
		pbp := prevBlock(data, bp)
		a.stats.CoalesceBackward++
		a.removeFree(pbp, blockSize(data, pbp))
		size += blockSize(data, pbp)
		bp = pbp
		setBlock(data, bp, size, false)
	}

	if nbp := bp + size; !blockAllocated(data, nbp) {
		a.stats.CoalesceForward++
		a.removeFree(nbp, blockSize(data, nbp))
		size += blockSize(data, nbp)
		setBlock(data, bp, size, false)
	}

	a.insertFree(bp, size)
	return bp
}

// extendForMiss grows the heap after a failed search. Only the shortfall
// beyond a free block already sitting at the region's end is requested, so
// the tail block is not over-extended; the amount is rounded up to the chunk
// granularity. Exactly one extension attempt is made per miss.
func (a *Allocator) extendForMiss(asize int) error {
	needed := asize - a.tailFreeSize()
	grow := word.AlignUp(needed, a.chunk)
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[ALLOC] miss: need=%d tail=%d grow=%d heap=%d\n",
			asize, asize-needed, grow, a.mem.Len())
	}
	_, err := a.extendHeap(grow)
	return err
}

// tailFreeSize returns the size of the free block ending at the epilogue,
// or 0 when the last block is allocated.
func (a *Allocator) tailFreeSize() int {
	data := a.mem.Bytes()
	ep := a.mem.Len() // epilogue payload offset
	if wordAllocated(data, ep-word.DSize) {
		return 0
	}
	return wordSize(data, ep-word.DSize)
}

// extendHeap grows the region by size bytes, builds a free block over the
// fresh span (reusing the old epilogue header as its header), writes the new
// epilogue, and coalesces with the previous tail. Returns the resulting
// block's payload offset.
func (a *Allocator) extendHeap(size int) (int, error) {
	size = word.Align8(size)
	base, err := a.mem.Extend(size)
	if err != nil {
		return 0, fmt.Errorf("alloc: extend heap by %d: %w", size, err)
	}
	a.stats.ExtendCalls++
	a.stats.ExtendBytes += int64(size)

	data := a.mem.Bytes()
	bp := base // the old epilogue payload: its header becomes this block's
	setBlock(data, bp, size, false)
	word.PutU32(data, hdr(bp+size), pack(0, true)) // new epilogue header

	return a.coalesce(bp), nil
}

// payload returns the payload slice of the allocated block at bp.
func (a *Allocator) payload(data []byte, bp int) []byte {
	return data[bp : bp+blockSize(data, bp)-word.DSize]
}

// debugLogf prints debug messages if debugAlloc is enabled.
func debugLogf(format string, args ...any) {
	if debugAlloc {
		fmt.Fprintf(os.Stderr, "[ALLOC] "+format+"\n", args...)
	}
}
