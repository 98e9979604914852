package wavelet

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-specmatch/internal/testutil"
)

func newTestSet(t *testing.T) (*Set, []float64) {
	t.Helper()

	sig := testutil.SyntheticAccelerogram(3, 600, 0.01, 0.2)

	set, err := Decompose(sig, 0.01, WithScales(40))
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	return set, sig
}

func TestSetCoefficients(t *testing.T) {
	set, _ := newTestSet(t)

	for k := range set.Len() {
		if set.Coefficient(k) != 1 {
			t.Fatalf("initial coefficient %d = %v, want 1", k, set.Coefficient(k))
		}
	}

	set.Scale(3, 2)
	set.Scale(3, 1.5)
	set.SetCoefficient(4, 0.25)
	set.ScaleAll(2)

	if got := set.Coefficient(3); got != 6 {
		t.Errorf("coefficient 3 = %v, want 6", got)
	}

	if got := set.Coefficient(4); got != 0.5 {
		t.Errorf("coefficient 4 = %v, want 0.5", got)
	}

	c := set.Coefficients()
	c[0] = 99
	if set.Coefficient(0) == 99 {
		t.Error("Coefficients returned shared slice")
	}

	set.Reset()
	for k := range set.Len() {
		if set.Coefficient(k) != 1 {
			t.Fatalf("coefficient %d after Reset = %v", k, set.Coefficient(k))
		}
	}
}

func TestSetUniformScale(t *testing.T) {
	set, sig := newTestSet(t)

	set.ScaleAll(0.5)
	got := set.Reconstruct()

	for i := range sig {
		if math.Abs(got[i]-0.5*sig[i]) > 1e-9 {
			t.Fatalf("sample %d: got %v, want %v", i, got[i], 0.5*sig[i])
		}
	}
}

func TestSetCloneIndependent(t *testing.T) {
	set, sig := newTestSet(t)

	clone := set.Clone()
	clone.ScaleAll(3)

	got := set.Reconstruct()
	testutil.RequireSliceNearlyEqual(t, got, sig, 1e-9)

	if clone.Samples() != set.Samples() || clone.Len() != set.Len() {
		t.Fatal("clone shape differs")
	}
}

func TestReconstructToMatchesReconstruct(t *testing.T) {
	set, _ := newTestSet(t)
	set.Scale(7, 1.3)

	a := set.Reconstruct()

	b := make([]float64, set.Samples())
	for i := range b {
		b[i] = 42
	}
	set.ReconstructTo(b)

	testutil.RequireSliceNearlyEqual(t, a, b, 0)
}

func TestSetPeriodsMatchBands(t *testing.T) {
	set, _ := newTestSet(t)

	periods := set.Periods()
	for i, b := range set.Bands() {
		if periods[i] != b.Period || math.Abs(b.Period*b.CenterFreq-1) > 1e-12 {
			t.Fatalf("band %d: period %v, center %v", i, b.Period, b.CenterFreq)
		}
	}
}
