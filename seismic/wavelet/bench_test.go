package wavelet

import (
	"strconv"
	"testing"

	"github.com/cwbudde/algo-specmatch/internal/testutil"
)

func BenchmarkBank_Decompose(b *testing.B) {
	for _, n := range []int{1000, 4000} {
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			bank, err := NewBank(n, 0.01)
			if err != nil {
				b.Fatal(err)
			}

			sig := testutil.SyntheticAccelerogram(1, n, 0.01, 0.3)

			b.ResetTimer()
			for range b.N {
				if _, err := bank.Decompose(sig); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSet_Reconstruct(b *testing.B) {
	sig := testutil.SyntheticAccelerogram(1, 4000, 0.01, 0.3)

	set, err := Decompose(sig, 0.01)
	if err != nil {
		b.Fatal(err)
	}

	dst := make([]float64, len(sig))

	b.ResetTimer()
	for range b.N {
		set.ReconstructTo(dst)
	}
}
