// Package heap provides the raw heap region backing the allocator: one
// contiguous, growable span of zero-initialized bytes. The region is reserved
// up front at a fixed capacity and grows only by moving its break upward, so
// successive extensions are always address-adjacent and slices handed out
// earlier stay valid across growth.
package heap

import (
	"errors"
	"fmt"

	"github.com/edward-official/week07-jungle/internal/word"
)

const (
	// DefaultCapacity is the region capacity used when the caller passes 0.
	DefaultCapacity = 256 << 20 // 256 MiB

	// MaxCapacity bounds the reservation. The allocator stores block
	// references as 32-bit offsets into the region, so the capacity must
	// stay below what they can address.
	MaxCapacity = 1<<31 - word.DSize
)

var (
	// ErrExhausted indicates the region cannot grow past its reserved capacity.
	ErrExhausted = errors.New("heap: region capacity exhausted")

	// ErrTooLarge indicates a requested capacity beyond MaxCapacity.
	ErrTooLarge = errors.New("heap: capacity exceeds the addressable maximum")

	// ErrClosed indicates an operation on a closed region.
	ErrClosed = errors.New("heap: region is closed")
)

// Region is a single contiguous heap span. Bytes below the break are owned by
// the allocator; bytes at or above it are unused and guaranteed zero. Region
// is not safe for concurrent use.
type Region struct {
	data    []byte // full reserved span, len == capacity
	brk     int    // current break; the region's high-water mark
	release func([]byte) error
}

// New reserves a region of the given capacity (DefaultCapacity when 0).
// On unix the reservation is an anonymous private mapping, elsewhere a plain
// slice; either way fresh bytes read as zero.
func New(capacity int) (*Region, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	capacity = word.AlignUp(capacity, word.DSize)
	if capacity > MaxCapacity {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooLarge, capacity, MaxCapacity)
	}

	data, release, err := reserve(capacity)
	if err != nil {
		return nil, fmt.Errorf("heap: reserve %d bytes: %w", capacity, err)
	}
	return &Region{data: data, release: release}, nil
}

// Bytes returns the in-use span of the region, from its base up to the
// current break. The slice remains valid across Extend calls.
func (r *Region) Bytes() []byte { return r.data[:r.brk] }

// Len returns the current break, i.e. the offset one past the last byte the
// region has granted.
func (r *Region) Len() int { return r.brk }

// Cap returns the reserved capacity.
func (r *Region) Cap() int { return len(r.data) }

// Extend grows the region by n bytes and returns the offset of the first new
// byte. The new bytes are zero. Fails with ErrExhausted when the reserved
// capacity cannot cover the request; no partial growth occurs.
func (r *Region) Extend(n int) (int, error) {
	if r.data == nil {
		return 0, ErrClosed
	}
	if n < 0 {
		return 0, fmt.Errorf("heap: negative extension (%d)", n)
	}
	if r.brk+n > len(r.data) {
		return 0, ErrExhausted
	}
	base := r.brk
	r.brk += n
	return base, nil
}

// Reset discards all region contents: the break returns to zero and the
// previously used prefix is re-zeroed so future extensions read as fresh.
func (r *Region) Reset() {
	if r.data == nil {
		return
	}
	clear(r.data[:r.brk])
	r.brk = 0
}

// Close releases the reservation. The Region must not be used afterwards.
func (r *Region) Close() error {
	if r.data == nil {
		return nil
	}
	data := r.data
	r.data = nil
	r.brk = 0
	return r.release(data)
}
