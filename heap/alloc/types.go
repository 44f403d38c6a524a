package alloc

// Ref identifies a block by its payload offset within the heap region.
// 0 is the null reference: it addresses the region's alignment padding and
// is never returned for a successful allocation.
type Ref = uint32

// Policy selects the free-list search strategy.
type Policy uint8

const (
	// BestFit scans every bucket at or above the request's size class and
	// picks the candidate with the least waste, short-circuiting on an
	// exact match.
	BestFit Policy = iota

	// FirstFit returns the first block that fits, in bucket order. Cheaper
	// per search, slightly worse space efficiency.
	FirstFit
)

func (p Policy) String() string {
	switch p {
	case BestFit:
		return "best-fit"
	case FirstFit:
		return "first-fit"
	default:
		return "unknown"
	}
}

// Config defines the allocator strategy. The zero value of any field falls
// back to the DefaultConfig value for that field.
type Config struct {
	// Name for this configuration (for benchmarking).
	Name string

	// Policy is the free-list search strategy.
	Policy Policy

	// ChunkSize is the heap backend extension granularity in bytes.
	// Extensions are rounded up to a multiple of this value.
	ChunkSize int

	// SmallestClass is the first size-class boundary in bytes.
	SmallestClass int

	// LargestClass is the last boundary before the catch-all class.
	LargestClass int
}

// Predefined configurations.
var (
	ConfigBestFit = Config{
		Name:          "BestFit",
		Policy:        BestFit,
		ChunkSize:     1 << 12,
		SmallestClass: 32,
		LargestClass:  16384,
	}

	ConfigFirstFit = Config{
		Name:          "FirstFit",
		Policy:        FirstFit,
		ChunkSize:     1 << 12,
		SmallestClass: 32,
		LargestClass:  16384,
	}

	// DefaultConfig is used when New is given a nil config.
	DefaultConfig = ConfigBestFit
)

// Stats holds internal allocator counters, exposed for tests and tooling.
type Stats struct {
	AllocCalls   int   // Total Alloc() calls
	FreeCalls    int   // Total Free() calls
	ReallocCalls int   // Total Realloc() calls
	ExtendCalls  int   // Heap backend extensions
	ExtendBytes  int64 // Total bytes added via extension

	SplitCount       int // Block splits (placement and realloc)
	CoalesceForward  int // Merges with the address successor
	CoalesceBackward int // Merges with the address predecessor
	InPlaceRealloc   int // Realloc satisfied by absorbing the next block
	RelocatedRealloc int // Realloc satisfied by relocate-and-copy

	BytesAllocated int64 // Total block bytes handed out (including overhead)
	BytesFreed     int64 // Total block bytes released
}
