package trace

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/edward-official/week07-jungle/heap"
	"github.com/edward-official/week07-jungle/heap/alloc"
)

// Result summarizes a trace replay.
type Result struct {
	Ops         int     // operations executed
	PeakLive    int64   // peak sum of requested payload bytes
	HeapBytes   int     // final heap region size
	Utilization float64 // PeakLive / HeapBytes
	Verified    int     // payload digests verified intact
}

// live tracks one outstanding allocation during replay.
type live struct {
	ref    alloc.Ref
	size   int    // requested payload bytes
	digest uint64 // xxhash of the payload fill
}

// Runner replays traces against an allocator, filling every payload with a
// deterministic pattern and checking the digest before the block is resized
// or released. A digest mismatch means the allocator let another operation
// scribble over caller-owned bytes.
type Runner struct {
	region *heap.Region
	alloc  *alloc.Allocator
}

// NewRunner wraps an allocator and its region for replay.
func NewRunner(region *heap.Region, a *alloc.Allocator) *Runner {
	return &Runner{region: region, alloc: a}
}

// Run executes the trace and returns the replay summary. The allocator is
// not reset first; callers wanting a cold heap should pass a fresh one.
func (r *Runner) Run(tr *Trace) (*Result, error) {
	blocks := make([]live, tr.NumIDs)
	res := &Result{}
	var liveBytes int64

	for i, op := range tr.Ops {
		b := &blocks[op.ID]
		switch op.Kind {
		case KindAlloc:
			ref, buf, err := r.alloc.Alloc(op.Size)
			if err != nil {
				return nil, fmt.Errorf("trace: op %d: alloc %d: %w", i, op.Size, err)
			}
			*b = live{ref: ref, size: op.Size, digest: fill(buf, op.Size, op.ID)}
			liveBytes += int64(op.Size)

		case KindRealloc:
			if err := r.verify(b, i); err != nil {
				return nil, err
			}
			res.Verified++
			ref, buf, err := r.alloc.Realloc(b.ref, op.Size)
			if err != nil {
				return nil, fmt.Errorf("trace: op %d: realloc %d: %w", i, op.Size, err)
			}
			liveBytes += int64(op.Size - b.size)
			*b = live{ref: ref, size: op.Size, digest: fill(buf, op.Size, op.ID)}

		case KindFree:
			if err := r.verify(b, i); err != nil {
				return nil, err
			}
			res.Verified++
			if err := r.alloc.Free(b.ref); err != nil {
				return nil, fmt.Errorf("trace: op %d: free: %w", i, err)
			}
			liveBytes -= int64(b.size)
			*b = live{}
		}

		if liveBytes > res.PeakLive {
			res.PeakLive = liveBytes
		}
		res.Ops++
	}

	res.HeapBytes = r.region.Len()
	if res.HeapBytes > 0 {
		res.Utilization = float64(res.PeakLive) / float64(res.HeapBytes)
	}
	return res, nil
}

// verify recomputes the digest of a live payload and compares it with the
// digest recorded when the payload was written.
func (r *Runner) verify(b *live, opIndex int) error {
	if b.ref == 0 {
		return nil
	}
	payload := r.alloc.Payload(b.ref)[:b.size]
	if got := xxhash.Sum64(payload); got != b.digest {
		return fmt.Errorf("trace: op %d: payload corrupted (digest %x, want %x)",
			opIndex, got, b.digest)
	}
	return nil
}

// fill writes a deterministic id-derived pattern over the first size bytes
// of buf and returns its digest. Zero-size allocations return a nil buf.
func fill(buf []byte, size, id int) uint64 {
	if buf == nil {
		return 0
	}
	seed := byte(id*31 + 7)
	for i := 0; i < size; i++ {
		buf[i] = seed + byte(i)
	}
	return xxhash.Sum64(buf[:size])
}
