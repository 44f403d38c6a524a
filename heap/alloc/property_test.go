package alloc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRandomizedWorkload drives a seeded mix of alloc, free, and realloc
// operations, verifying payload integrity and the structural invariants after
// every step. The seed is fixed so failures reproduce.
func TestRandomizedWorkload(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	a := newTestAllocator(t)

	type liveBlock struct {
		ref Ref
		n   int
		tag byte
	}
	var live []liveBlock

	fill := func(buf []byte, n int, tag byte) {
		for i := 0; i < n; i++ {
			buf[i] = tag ^ byte(i)
		}
	}
	check := func(b liveBlock) {
		buf := a.Payload(b.ref)
		for i := 0; i < b.n; i++ {
			require.Equalf(t, b.tag^byte(i), buf[i],
				"payload of ref %d corrupted at byte %d", b.ref, i)
		}
	}

	var tag byte
	for op := 0; op < 400; op++ {
		switch r := rng.Intn(10); {
		case r < 5 || len(live) == 0: // alloc
			n := 1 + rng.Intn(600)
			ref, buf, err := a.Alloc(n)
			require.NoError(t, err)
			tag++
			fill(buf, n, tag)
			live = append(live, liveBlock{ref: ref, n: n, tag: tag})

		case r < 8: // free
			i := rng.Intn(len(live))
			check(live[i])
			require.NoError(t, a.Free(live[i].ref))
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]

		default: // realloc
			i := rng.Intn(len(live))
			check(live[i])
			n := 1 + rng.Intn(600)
			ref, buf, err := a.Realloc(live[i].ref, n)
			require.NoError(t, err)

			// The preserved prefix must survive the resize.
			keep := live[i].n
			if n < keep {
				keep = n
			}
			for j := 0; j < keep; j++ {
				require.Equal(t, live[i].tag^byte(j), buf[j])
			}
			tag++
			fill(buf, n, tag)
			live[i] = liveBlock{ref: ref, n: n, tag: tag}
		}
		assertInvariants(t, a)
	}

	for _, b := range live {
		check(b)
		require.NoError(t, a.Free(b.ref))
	}
	blocks := walkHeap(t, a)
	require.Len(t, blocks, 1, "full release must leave a single free block")
}
