package alloc

import "errors"

var (
	// ErrNoSpace indicates that no free block large enough was found and the
	// heap region could not grow to cover the request. When growth failed at
	// the backend, heap.ErrExhausted is in the wrap chain.
	ErrNoSpace = errors.New("alloc: no free block large enough")

	// ErrBadRef indicates an out-of-range or misaligned block reference.
	ErrBadRef = errors.New("alloc: bad block reference")

	// ErrBadSize indicates a negative request size, or one so large that
	// adding the block overhead overflows.
	ErrBadSize = errors.New("alloc: unrepresentable request size")

	// ErrRegionInUse indicates that New was given a region that already
	// contains data. The allocator must own the region from offset zero.
	ErrRegionInUse = errors.New("alloc: region is not empty")
)
