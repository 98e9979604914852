package wavelet_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-specmatch/seismic/wavelet"
)

func ExampleDecompose() {
	const dt = 0.01

	accel := make([]float64, 500)
	for i := range accel {
		t := float64(i) * dt
		accel[i] = 0.2*math.Sin(2*math.Pi*1.5*t) + 0.05*math.Sin(2*math.Pi*8*t)
	}

	set, err := wavelet.Decompose(accel, dt, wavelet.WithScales(50))
	if err != nil {
		fmt.Println(err)
		return
	}

	rebuilt := set.Reconstruct()

	maxErr := 0.0
	for i := range accel {
		maxErr = math.Max(maxErr, math.Abs(rebuilt[i]-accel[i]))
	}

	fmt.Printf("bands=%d exact=%v\n", set.Len(), maxErr < 1e-9)
	// Output:
	// bands=50 exact=true
}
