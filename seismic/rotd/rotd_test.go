package rotd

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/cwbudde/algo-specmatch/internal/testutil"
	"github.com/cwbudde/algo-specmatch/seismic/response"
)

const (
	testDT      = 0.01
	testN       = 1500
	testDamping = 0.05
)

func testPair() ([]float64, []float64) {
	return testutil.SyntheticAccelerogram(11, testN, testDT, 0.4),
		testutil.SyntheticAccelerogram(12, testN, testDT, 0.3)
}

func newTestCalculator(t *testing.T, opts ...response.Option) *Calculator {
	t.Helper()

	eng, err := response.NewEngine(testDT, response.LogPeriods(0.05, 4, 25), testDamping, opts...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	calc, err := NewCalculator(eng, DefaultAngles())
	if err != nil {
		t.Fatalf("NewCalculator: %v", err)
	}

	return calc
}

func TestPercentileOrdering(t *testing.T) {
	calc := newTestCalculator(t)
	s1, s2 := testPair()

	var prev []float64
	for _, p := range []float64{100, 50, 0} {
		sp, err := calc.Compute(s1, s2, p)
		if err != nil {
			t.Fatalf("Compute(%v): %v", p, err)
		}
		testutil.RequireFinite(t, sp.PSA)

		if prev != nil {
			for k := range sp.PSA {
				if sp.PSA[k] > prev[k]+1e-12 {
					t.Fatalf("percentile %v at T=%.3g: %v exceeds higher percentile %v",
						p, sp.Periods[k], sp.PSA[k], prev[k])
				}
			}
		}
		prev = sp.PSA
	}
}

func TestSingleComponentMatchesPlainSpectrum(t *testing.T) {
	calc := newTestCalculator(t)
	s1, _ := testPair()
	zero := make([]float64, len(s1))

	got, err := calc.Compute(s1, zero, 100)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	want := calc.Engine().Compute(s1)
	testutil.RequireSliceNearlyEqual(t, got.PSA, want.PSA, 1e-12)

	lo, err := calc.Compute(s1, zero, 0)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	for k, v := range lo.PSA {
		if v > 1e-12*want.PSA[k] {
			t.Fatalf("RotD0[%d] = %v, want 0 (90° rotation of a single component)", k, v)
		}
	}
}

func TestIdenticalComponentsPeakAt45Degrees(t *testing.T) {
	calc := newTestCalculator(t)
	s1, _ := testPair()

	got, err := calc.Compute(s1, s1, 100)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	want := calc.Engine().Compute(s1).PSA
	for k := range want {
		want[k] *= math.Sqrt2
	}

	testutil.RequireWithinRatio(t, got.PSA, want, 1e-9)
}

func TestDistributionMaxIsRotD100(t *testing.T) {
	calc := newTestCalculator(t)
	s1, s2 := testPair()

	dist, err := calc.Distribution(s1, s2)
	if err != nil {
		t.Fatalf("Distribution: %v", err)
	}

	if len(dist) != calc.Engine().NumPeriods() {
		t.Fatalf("len(dist) = %d, want %d", len(dist), calc.Engine().NumPeriods())
	}

	rot100, err := calc.Compute(s1, s2, 100)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	for k, row := range dist {
		if len(row) != 180 {
			t.Fatalf("row %d has %d angles, want 180", k, len(row))
		}

		peak := 0.0
		for _, v := range row {
			peak = math.Max(peak, v)
		}

		if math.Abs(peak-rot100.PSA[k]) > 1e-12*peak {
			t.Fatalf("period %d: max over angles %v != RotD100 %v", k, peak, rot100.PSA[k])
		}
	}
}

func TestRotD50IsMedianOfDistribution(t *testing.T) {
	calc := newTestCalculator(t)
	s1, s2 := testPair()

	dist, err := calc.Distribution(s1, s2)
	if err != nil {
		t.Fatalf("Distribution: %v", err)
	}

	rot50, err := calc.Compute(s1, s2, 50)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	for k, row := range dist {
		sort.Float64s(row)
		median := (row[89] + row[90]) / 2

		if math.Abs(rot50.PSA[k]-median) > 1e-12*median {
			t.Fatalf("period %d: RotD50 %v, median over angles %v", k, rot50.PSA[k], median)
		}
	}
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 4, 8}

	tests := []struct {
		p, want float64
	}{
		{0, 1},
		{0.5, 3},
		{1, 8},
		{1.0 / 3, 2},
		{0.25, 1.75},
	}

	for _, tc := range tests {
		if got := quantile(sorted, tc.p); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("quantile(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}

	if got := quantile([]float64{7}, 0.5); got != 7 {
		t.Errorf("single value quantile = %v, want 7", got)
	}
}

func TestWorkersAgree(t *testing.T) {
	s1, s2 := testPair()

	serial, err := newTestCalculator(t, response.WithWorkers(1)).Compute(s1, s2, 50)
	if err != nil {
		t.Fatalf("serial: %v", err)
	}

	par, err := newTestCalculator(t, response.WithWorkers(4)).Compute(s1, s2, 50)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, par.PSA, serial.PSA, 0)
}

func TestComputeErrors(t *testing.T) {
	calc := newTestCalculator(t)
	s1, s2 := testPair()

	tests := []struct {
		name       string
		s1, s2     []float64
		percentile float64
		want       error
	}{
		{"negative percentile", s1, s2, -1, ErrInvalidPercentile},
		{"percentile above 100", s1, s2, 100.5, ErrInvalidPercentile},
		{"NaN percentile", s1, s2, math.NaN(), ErrInvalidPercentile},
		{"length mismatch", s1, s2[:10], 50, ErrLengthMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := calc.Compute(tc.s1, tc.s2, tc.percentile)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}

	if _, err := calc.Distribution(s1, s2[:10]); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("Distribution err = %v, want ErrLengthMismatch", err)
	}
}

func TestPackageCompute(t *testing.T) {
	s1, s2 := testPair()

	if _, err := Compute(s1, s2, 0, []float64{1}, testDamping, 50); !errors.Is(err, response.ErrInvalidTimeStep) {
		t.Fatalf("err = %v, want ErrInvalidTimeStep", err)
	}

	sp, err := Compute(s1, s2, testDT, []float64{0.2, 1}, testDamping, 50)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if len(sp.PSA) != 2 || sp.Damping != testDamping {
		t.Fatalf("unexpected spectrum %+v", sp)
	}
}
