package wavelet

import (
	"gonum.org/v1/gonum/floats"
)

// Set is a decomposed record: one fixed waveform per band plus a mutable
// coefficient per band. A Set is not safe for concurrent mutation.
type Set struct {
	bank  *Bank
	comps [][]float64
	coef  []float64
}

// Bank returns the bank the set was produced by.
func (s *Set) Bank() *Bank { return s.bank }

// Len returns the number of components.
func (s *Set) Len() int { return len(s.comps) }

// Samples returns the length of each component.
func (s *Set) Samples() int { return s.bank.n }

// Bands returns the band of every component.
func (s *Set) Bands() []Band { return s.bank.bands }

// Periods returns the characteristic period of every component.
func (s *Set) Periods() []float64 { return s.bank.Periods() }

// Component returns the waveform of component k. The slice is shared with
// the set and must not be modified.
func (s *Set) Component(k int) []float64 { return s.comps[k] }

// Coefficient returns the coefficient of component k.
func (s *Set) Coefficient(k int) float64 { return s.coef[k] }

// Coefficients returns a copy of all coefficients.
func (s *Set) Coefficients() []float64 { return append([]float64(nil), s.coef...) }

// SetCoefficient replaces the coefficient of component k.
func (s *Set) SetCoefficient(k int, c float64) { s.coef[k] = c }

// Scale multiplies the coefficient of component k by f.
func (s *Set) Scale(k int, f float64) { s.coef[k] *= f }

// ScaleAll multiplies every coefficient by f.
func (s *Set) ScaleAll(f float64) { floats.Scale(f, s.coef) }

// Reset sets every coefficient back to 1.
func (s *Set) Reset() {
	for i := range s.coef {
		s.coef[i] = 1
	}
}

// Clone returns a set sharing the component waveforms but owning a copy of
// the coefficients.
func (s *Set) Clone() *Set {
	return &Set{bank: s.bank, comps: s.comps, coef: s.Coefficients()}
}

// Reconstruct returns the coefficient-weighted sum of all components.
func (s *Set) Reconstruct() []float64 {
	out := make([]float64, s.bank.n)
	s.ReconstructTo(out)

	return out
}

// ReconstructTo writes the coefficient-weighted sum into dst, which must
// have Samples() elements.
func (s *Set) ReconstructTo(dst []float64) {
	for i := range dst {
		dst[i] = 0
	}

	for k, comp := range s.comps {
		if c := s.coef[k]; c != 0 {
			floats.AddScaled(dst, c, comp)
		}
	}
}
