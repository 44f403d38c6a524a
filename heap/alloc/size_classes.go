package alloc

// sizeClassTable holds the computed size class boundaries. A block of size s
// belongs to the first class whose boundary is >= s; sizes above the last
// boundary fall into a catch-all class at index len(boundaries).
type sizeClassTable struct {
	boundaries []int // upper bound for each size class, ascending
}

// newSizeClassTable computes geometric boundaries between smallest and
// largest: each power of two and its midpoint (32, 48, 64, 96, 128, ...).
func newSizeClassTable(smallest, largest int) *sizeClassTable {
	t := &sizeClassTable{boundaries: make([]int, 0, 32)}
	for p := smallest; p < largest; p *= 2 {
		t.boundaries = append(t.boundaries, p)
		if mid := p + p/2; mid < largest {
			t.boundaries = append(t.boundaries, mid)
		}
	}
	t.boundaries = append(t.boundaries, largest)
	return t
}

// classify returns the size class index for a block size. The mapping is a
// monotonic step function: equal sizes always map to the same class and a
// larger size never maps to a smaller class.
func (t *sizeClassTable) classify(size int) int {
	// Binary search for the smallest boundary that fits.
	lo, hi := 0, len(t.boundaries)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		if size <= t.boundaries[mid] {
			if mid == 0 || size > t.boundaries[mid-1] {
				return mid
			}
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	// Larger than all boundaries: catch-all class.
	return len(t.boundaries)
}

// numClasses returns the bucket count, including the catch-all class.
func (t *sizeClassTable) numClasses() int {
	return len(t.boundaries) + 1
}

// ClassBoundaries returns the size-class upper bounds the config produces,
// in ascending order. Sizes above the last boundary share a catch-all class.
func (c Config) ClassBoundaries() []int {
	smallest := c.SmallestClass
	if smallest == 0 {
		smallest = DefaultConfig.SmallestClass
	}
	largest := c.LargestClass
	if largest == 0 {
		largest = DefaultConfig.LargestClass
	}
	t := newSizeClassTable(smallest, largest)
	return append([]int(nil), t.boundaries...)
}
