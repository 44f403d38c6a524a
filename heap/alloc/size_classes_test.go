package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassBoundariesDefault(t *testing.T) {
	bounds := DefaultConfig.ClassBoundaries()

	// Geometric ladder: each power of two and its midpoint.
	assert.Equal(t, []int{
		32, 48, 64, 96, 128, 192, 256, 384, 512, 768,
		1024, 1536, 2048, 3072, 4096, 6144, 8192, 12288, 16384,
	}, bounds)
}

func TestClassifyConsistency(t *testing.T) {
	table := newSizeClassTable(DefaultConfig.SmallestClass, DefaultConfig.LargestClass)

	// Same size always maps to the same class, and the class's boundary
	// actually covers the size.
	for size := minBlockSize; size <= 20000; size += 8 {
		sc := table.classify(size)
		require.Equal(t, sc, table.classify(size), "classify must be deterministic for %d", size)
		if sc < len(table.boundaries) {
			require.LessOrEqual(t, size, table.boundaries[sc], "size %d exceeds its class boundary", size)
			if sc > 0 {
				require.Greater(t, size, table.boundaries[sc-1], "size %d fits a smaller class", size)
			}
		}
	}
}

func TestClassifyMonotonic(t *testing.T) {
	table := newSizeClassTable(DefaultConfig.SmallestClass, DefaultConfig.LargestClass)

	prev := 0
	for size := minBlockSize; size <= 40000; size += 8 {
		sc := table.classify(size)
		require.GreaterOrEqual(t, sc, prev, "larger size %d mapped to a smaller class", size)
		prev = sc
	}
}

func TestClassifyCatchAll(t *testing.T) {
	table := newSizeClassTable(DefaultConfig.SmallestClass, DefaultConfig.LargestClass)

	assert.Equal(t, len(table.boundaries)-1, table.classify(16384), "largest boundary is a real class")
	assert.Equal(t, len(table.boundaries), table.classify(16385), "beyond the last boundary goes to catch-all")
	assert.Equal(t, len(table.boundaries), table.classify(1<<26))
	assert.Equal(t, len(table.boundaries)+1, table.numClasses())
}

func TestClassifySmallest(t *testing.T) {
	table := newSizeClassTable(DefaultConfig.SmallestClass, DefaultConfig.LargestClass)

	// The minimum block size lands in the first class.
	assert.Equal(t, 0, table.classify(minBlockSize))
	assert.Equal(t, 0, table.classify(32))
	assert.Equal(t, 1, table.classify(33))
}
