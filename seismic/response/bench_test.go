package response

import (
	"strconv"
	"testing"

	"github.com/cwbudde/algo-specmatch/internal/testutil"
)

func BenchmarkEngine_Compute(b *testing.B) {
	periods := LogPeriods(0.02, 6, 100)

	for _, n := range []int{1000, 4000, 16000} {
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			eng, err := NewEngine(0.01, periods, 0.05)
			if err != nil {
				b.Fatal(err)
			}

			accel := testutil.DeterministicNoise(1, 0.3, n)
			dst := make([]float64, len(periods))

			b.ResetTimer()
			for range b.N {
				eng.ComputeTo(dst, accel)
			}
		})
	}
}
