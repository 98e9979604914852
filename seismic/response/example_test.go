package response_test

import (
	"fmt"

	"github.com/cwbudde/algo-specmatch/seismic/response"
)

func ExampleCompute() {
	// A suddenly applied constant base acceleration drives an undamped
	// oscillator to twice its static deflection.
	accel := make([]float64, 4000)
	for i := range accel {
		accel[i] = 1
	}

	sp, err := response.Compute(accel, 0.0005, []float64{0.5}, 0)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("PSA(0.5 s) = %.2f g\n", sp.PSA[0])
	// Output:
	// PSA(0.5 s) = 2.00 g
}
