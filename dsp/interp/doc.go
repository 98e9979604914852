// Package interp provides interpolation on tabulated abscissae.
//
// [Table] evaluates a piecewise-linear function through (x, y) pairs and
// reports NaN outside the tabulated range rather than extrapolating.
// Response spectra are interpolated this way along the period axis.
package interp
