// Package rotd computes orientation-independent RotDnn response spectra of a
// pair of orthogonal horizontal accelerograms.
//
// For every rotation angle θ the combined record is
//
//	a(θ, t) = a1(t)·cos θ + a2(t)·sin θ
//
// and RotDnn is the nn-th percentile over θ of the pseudo-spectral
// acceleration at each period. Because the oscillator is linear the rotated
// displacement equals cos θ·u1 + sin θ·u2, so each period integrates only the
// two component histories regardless of how many angles are evaluated.
package rotd
