package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edward-official/week07-jungle/internal/word"
)

func TestCoalesceBackward(t *testing.T) {
	a := newTestAllocator(t)

	ra, _ := mustAlloc(t, a, 40)
	rb, _ := mustAlloc(t, a, 40)
	mustAlloc(t, a, 16) // guard so rb cannot merge with the tail

	require.NoError(t, a.Free(ra))
	require.NoError(t, a.Free(rb)) // rb's predecessor is free: merge backward

	assert.Equal(t, 1, a.stats.CoalesceBackward)
	blocks := walkHeap(t, a)
	assert.Equal(t, int(ra), blocks[0].bp)
	assert.False(t, blocks[0].allocated)
	assert.Equal(t, 2*adjustSize(40), blocks[0].size)
	assertInvariants(t, a)
}

func TestCoalesceForward(t *testing.T) {
	a := newTestAllocator(t)

	ra, _ := mustAlloc(t, a, 40)
	rb, _ := mustAlloc(t, a, 40)
	mustAlloc(t, a, 16)

	require.NoError(t, a.Free(rb))
	require.NoError(t, a.Free(ra)) // ra's successor is free: merge forward

	assert.Equal(t, 1, a.stats.CoalesceForward)
	blocks := walkHeap(t, a)
	assert.Equal(t, int(ra), blocks[0].bp)
	assert.Equal(t, 2*adjustSize(40), blocks[0].size)
	assertInvariants(t, a)
}

func TestCoalesceBothSides(t *testing.T) {
	a := newTestAllocator(t)

	ra, _ := mustAlloc(t, a, 40)
	rb, _ := mustAlloc(t, a, 40)
	rc, _ := mustAlloc(t, a, 40)
	mustAlloc(t, a, 16)

	require.NoError(t, a.Free(ra))
	require.NoError(t, a.Free(rc))
	require.NoError(t, a.Free(rb)) // both neighbors free: absorb both

	blocks := walkHeap(t, a)
	assert.Equal(t, int(ra), blocks[0].bp)
	assert.Equal(t, 3*adjustSize(40), blocks[0].size)
	assert.False(t, blocks[0].allocated)
	assertInvariants(t, a)
}

func TestExtensionMergesWithFreeTail(t *testing.T) {
	a := newTestAllocator(t)
	chunk := DefaultConfig.ChunkSize

	// The whole initial block is a free tail; the miss extension must merge
	// with it instead of stranding it behind a fresh block.
	backward := a.stats.CoalesceBackward
	ref, _, err := a.Alloc(chunk)
	require.NoError(t, err)
	assert.Equal(t, Ref(firstBlock), ref)
	assert.Equal(t, backward+1, a.stats.CoalesceBackward,
		"extension block must coalesce backward into the tail")
	assertInvariants(t, a)
}

func TestExtensionRequestsOnlyTheShortfall(t *testing.T) {
	a := newTestAllocator(t)
	chunk := DefaultConfig.ChunkSize

	// Request slightly more than the free tail: the shortfall rounds up to
	// one chunk, not to the full adjusted size.
	_, _, err := a.Alloc(chunk + chunk/2)
	require.NoError(t, err)
	assert.Equal(t, int64(2*chunk), a.stats.ExtendBytes,
		"grew by one chunk beyond the bootstrap extension")
	assert.Equal(t, 4*word.Size+2*chunk, a.mem.Len())
	assertInvariants(t, a)
}

func TestNoAdjacentFreeBlocksAfterChurn(t *testing.T) {
	a := newTestAllocator(t)

	var refs []Ref
	for i := 0; i < 40; i++ {
		r, _ := mustAlloc(t, a, 16+(i%5)*24)
		refs = append(refs, r)
	}
	// Free every other block, then the rest, forcing merges in both
	// directions.
	for i := 0; i < len(refs); i += 2 {
		require.NoError(t, a.Free(refs[i]))
	}
	for i := 1; i < len(refs); i += 2 {
		require.NoError(t, a.Free(refs[i]))
	}

	blocks := walkHeap(t, a)
	require.Len(t, blocks, 1, "full release must collapse the heap into one free block")
	assert.Equal(t, a.mem.Len()-4*word.Size, blocks[0].size)
	assertInvariants(t, a)
}
