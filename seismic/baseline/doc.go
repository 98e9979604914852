// Package baseline integrates accelerograms and removes the long-period
// drift that spectral matching leaves in velocity and displacement.
//
// Correct fits a polynomial to the displacement history and subtracts its
// second derivative from the acceleration. EndCorrect rescales the leading
// and trailing portions of the record until the final velocity and
// displacement are negligible. Neither routine runs inside the matching
// loop.
package baseline
