// Package response computes pseudo-spectral-acceleration (PSA) response
// spectra of accelerograms.
//
// Each period T defines a damped single-degree-of-freedom oscillator with
// natural circular frequency ω = 2π/T. The oscillator is driven by the base
// acceleration and integrated with the piecewise-exact recurrence of Nigam
// and Jennings, which is exact for linearly interpolated excitation and
// unconditionally stable in the time step. The spectral ordinate is
//
//	PSA(T) = ω² · max|u(t)|
//
// where u is the relative displacement.
//
// [Compute] is a one-shot helper. Iterative callers should build an
// [Engine] once: it stores the recurrence constants per period and reuses
// them for every signal evaluated with the same time step and damping.
//
// Basic usage:
//
//	eng, err := response.NewEngine(0.01, periods, 0.05)
//	if err != nil {
//	    return err
//	}
//	sp := eng.Compute(accel)
//	for i, T := range sp.Periods {
//	    fmt.Printf("T=%.3f s  PSA=%.4f g\n", T, sp.PSA[i])
//	}
package response
