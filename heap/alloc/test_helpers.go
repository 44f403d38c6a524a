package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edward-official/week07-jungle/heap"
	"github.com/edward-official/week07-jungle/internal/word"
)

// testCapacity keeps test regions small so exhaustion cases are cheap to hit.
const testCapacity = 1 << 20

// newTestAllocator creates an allocator over a fresh region with the default
// config. The region is closed on test cleanup.
func newTestAllocator(t testing.TB) *Allocator {
	t.Helper()
	return newTestAllocatorWithConfig(t, testCapacity, nil)
}

// newTestAllocatorWithConfig creates an allocator with an explicit capacity
// and config.
func newTestAllocatorWithConfig(t testing.TB, capacity int, cfg *Config) *Allocator {
	t.Helper()
	region, err := heap.New(capacity)
	require.NoError(t, err)
	t.Cleanup(func() { _ = region.Close() })

	a, err := New(region, cfg)
	require.NoError(t, err)
	return a
}

// blockInfo describes one block observed while walking the heap.
type blockInfo struct {
	bp        int
	size      int
	allocated bool
}

// walkHeap returns every block between the sentinels in address order,
// failing the test if the walk runs off the region.
func walkHeap(t testing.TB, a *Allocator) []blockInfo {
	t.Helper()
	data := a.mem.Bytes()
	var blocks []blockInfo

	for bp := firstBlock; ; bp = nextBlock(data, bp) {
		require.LessOrEqual(t, bp, a.mem.Len(), "heap walk ran past the region")
		size := blockSize(data, bp)
		if size == 0 { // epilogue
			require.Equal(t, a.mem.Len(), bp, "epilogue is not at the region end")
			break
		}
		blocks = append(blocks, blockInfo{bp: bp, size: size, allocated: blockAllocated(data, bp)})
	}
	return blocks
}

// assertInvariants checks the structural invariants that must hold between
// operations: header/footer agreement, no two adjacent free blocks, size
// conservation, and exact agreement between the heap's free blocks and the
// free-list index.
func assertInvariants(t testing.TB, a *Allocator) {
	t.Helper()
	data := a.mem.Bytes()
	blocks := walkHeap(t, a)

	total := 0
	prevFree := false
	freeBlocks := make(map[int]int) // bp -> size
	for _, b := range blocks {
		require.Zero(t, b.size%word.DSize, "block %d has unaligned size %d", b.bp, b.size)
		require.GreaterOrEqual(t, b.size, minBlockSize, "block %d below minimum size", b.bp)
		require.Equal(t,
			word.U32(data, hdr(b.bp)),
			word.U32(data, b.bp+b.size-word.DSize),
			"header/footer disagree at %d", b.bp)

		if !b.allocated {
			require.False(t, prevFree, "adjacent free blocks at %d", b.bp)
			freeBlocks[b.bp] = b.size
		}
		prevFree = !b.allocated
		total += b.size
	}

	// Sentinel overhead: padding word + prologue block + epilogue header.
	require.Equal(t, a.mem.Len(), total+4*word.Size, "block sizes do not conserve the region")

	// Every free block is indexed exactly once, in the bucket matching its
	// current size.
	indexed := make(map[int]bool)
	for sc, head := range a.heads {
		for bp := head; bp != 0; bp = succOf(data, bp) {
			require.False(t, indexed[bp], "block %d indexed twice", bp)
			indexed[bp] = true

			size, ok := freeBlocks[bp]
			require.True(t, ok, "indexed block %d is not a free heap block", bp)
			require.Equal(t, sc, a.table.classify(size), "block %d of size %d in bucket %d", bp, size, sc)
		}
	}
	require.Len(t, indexed, len(freeBlocks), "free blocks missing from the index")
}

// mustAlloc allocates or fails the test.
func mustAlloc(t testing.TB, a *Allocator, n int) (Ref, []byte) {
	t.Helper()
	ref, buf, err := a.Alloc(n)
	require.NoError(t, err)
	require.NotZero(t, ref)
	return ref, buf
}
