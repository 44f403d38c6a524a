// Package alloc implements general-purpose dynamic allocation over a single
// contiguous heap region using segregated explicit free lists.
//
// # Overview
//
// The allocator manages the region handed to it by package heap as a sequence
// of self-describing blocks. Every block carries a 4-byte header word and a
// 4-byte footer word packing `size | allocatedBit`; sizes are multiples of 8,
// so the low three bits of the word are available for flags. Free blocks
// additionally store two 8-byte offsets at the front of their payload, the
// pred/succ links of the doubly linked free list for their size class.
//
// # Layout
//
//	offset 0      4-byte alignment padding
//	offset 4      prologue header (8 | allocated)
//	offset 8      prologue footer (8 | allocated)
//	offset 12..   blocks
//	end - 4       epilogue header (0 | allocated)
//
// The prologue and epilogue are permanent sentinels: they bound the
// neighbor scans performed during coalescing, so no boundary checks are
// needed on the hot path.
//
// # Block references
//
// A block is identified by its payload offset within the region (Ref).
// Offset 0 is the padding word and never a payload, so 0 doubles as the
// null reference and as the nil link inside free-list fields.
//
// # Free-list index
//
// Free blocks are indexed by size class. Class boundaries grow
// geometrically (32, 48, 64, 96, 128, ... 16384) with a catch-all class
// above the largest boundary. Insertion is LIFO at the bucket head;
// removal unlinks through the block's own pred/succ fields. Both are O(1).
//
// # Policies
//
//   - Search: best-fit across all buckets at or above the request's class,
//     short-circuiting on an exact match. First-fit is available via Config
//     for workloads where scan cost dominates.
//   - Placement: a located block is split when the remainder can stand as a
//     minimum-size free block (24 bytes); otherwise it is consumed whole.
//   - Coalescing: on every release and heap extension the block is merged
//     with any address-adjacent free neighbor. Neighbors are removed from
//     the index before merging so no stale entry survives.
//   - Growth: on an allocation miss the heap is extended once, by the
//     shortfall beyond any free block already sitting at the region's end,
//     rounded up to the configured chunk size. The retried search then
//     always succeeds.
//
// # Resize
//
// Realloc is three-tier: shrink in place (splitting off a free remainder
// when it meets the minimum block size), grow in place by absorbing a free
// successor block, or relocate-and-copy as a last resort. A failed
// relocation leaves the original block untouched.
//
// # Usage
//
//	region, err := heap.New(0)
//	if err != nil {
//	    return err
//	}
//	a, err := alloc.New(region, nil)
//	if err != nil {
//	    return err
//	}
//
//	ref, buf, err := a.Alloc(256)
//	if err != nil {
//	    return err
//	}
//	copy(buf, payload)
//	// ...
//	err = a.Free(ref)
//
// # Contract
//
// The allocator is single-threaded and non-reentrant; callers needing
// concurrency must serialize externally. Double-free, freeing a reference
// not returned by Alloc/Realloc, and writing past a payload are undefined
// behavior: the allocator trusts its caller and performs only the cheap
// bounds checks that cost nothing on the hot path.
package alloc
