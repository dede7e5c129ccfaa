package wavelet

import (
	"fmt"
	"testing"
)

var bench1DSizes = []int{64, 256, 1024, 4096}

func BenchmarkDecompose(b *testing.B) {
	for _, variant := range []Variant{Normalized4, {Normalized: true, Filter: FilterExplicit}} {
		for _, size := range bench1DSizes {
			b.Run(fmt.Sprintf("%s/%d", variant.Filter, size), func(b *testing.B) {
				data := randomSignal(size, 1)
				b.ReportAllocs()
				for b.Loop() {
					Decompose(data, size, variant)
				}
			})
		}
	}
}

func BenchmarkNonStandardDecompose(b *testing.B) {
	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprintf("512x512/workers=%d", workers), func(b *testing.B) {
			g := randomGrid(512, 512, 1)
			b.ReportAllocs()
			for b.Loop() {
				NonStandardDecompose(g, Normalized4, WithWorkers(workers))
			}
		})
	}
}
