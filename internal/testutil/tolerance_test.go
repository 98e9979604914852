package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.1, 3})
	if err != nil {
		t.Fatalf("MaxAbsDiff error: %v", err)
	}

	if math.Abs(d-0.1) > 1e-15 {
		t.Fatalf("MaxAbsDiff = %v, want 0.1", d)
	}
}

func TestMaxRelDiff(t *testing.T) {
	tests := []struct {
		name      string
		got, want []float64
		expect    float64
	}{
		{"identical", []float64{0.5, 1}, []float64{0.5, 1}, 0},
		{"ten percent", []float64{0.55, 1}, []float64{0.5, 1}, 0.1},
		{"zero reference", []float64{0.2}, []float64{0}, 0.2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := MaxRelDiff(tc.got, tc.want)
			if err != nil {
				t.Fatal(err)
			}

			if math.Abs(d-tc.expect) > 1e-12 {
				t.Fatalf("MaxRelDiff = %v, want %v", d, tc.expect)
			}
		})
	}
}

func TestDiffLengthMismatch(t *testing.T) {
	if _, err := MaxAbsDiff([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("MaxAbsDiff: expected error for length mismatch")
	}

	if _, err := MaxRelDiff([]float64{1}, nil); err == nil {
		t.Fatal("MaxRelDiff: expected error for length mismatch")
	}
}

func TestRequireHelpersAcceptCloseData(t *testing.T) {
	RequireSliceNearlyEqual(t, []float64{1, 2}, []float64{1 + 1e-12, 2}, 1e-9)
	RequireWithinRatio(t, []float64{1.05, 0.98}, []float64{1, 1}, 0.06)
	RequireFinite(t, []float64{0, -1, 1e300})
}
