package alloc

import (
	"math/rand"
	"testing"

	"github.com/edward-official/week07-jungle/heap"
)

func benchAllocator(b *testing.B, cfg *Config) *Allocator {
	b.Helper()
	region, err := heap.New(1 << 24)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = region.Close() })

	a, err := New(region, cfg)
	if err != nil {
		b.Fatal(err)
	}
	return a
}

func BenchmarkAllocFree(b *testing.B) {
	a := benchAllocator(b, nil)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		ref, _, err := a.Alloc(64)
		if err != nil {
			b.Fatal(err)
		}
		if err := a.Free(ref); err != nil {
			b.Fatal(err)
		}
	}
}

func benchChurn(b *testing.B, cfg *Config) {
	a := benchAllocator(b, cfg)
	rng := rand.New(rand.NewSource(1))

	live := make([]Ref, 0, 256)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if len(live) == 0 || (len(live) < 256 && rng.Intn(3) != 0) {
			ref, _, err := a.Alloc(1 + rng.Intn(512))
			if err != nil {
				b.Fatal(err)
			}
			live = append(live, ref)
		} else {
			j := rng.Intn(len(live))
			if err := a.Free(live[j]); err != nil {
				b.Fatal(err)
			}
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}
}

func BenchmarkChurnBestFit(b *testing.B) {
	cfg := ConfigBestFit
	benchChurn(b, &cfg)
}

func BenchmarkChurnFirstFit(b *testing.B) {
	cfg := ConfigFirstFit
	benchChurn(b, &cfg)
}
