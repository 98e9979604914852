package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	// First sample of a sine at phase 0 should be 0.
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	// All values in [-1, 1].
	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	if len(a) != 64 {
		t.Fatalf("len = %d, want 64", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
	}
}

func TestDC(t *testing.T) {
	d := DC(0.5, 4)
	for i, v := range d {
		if v != 0.5 {
			t.Fatalf("DC[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestEnvelopeShape(t *testing.T) {
	e := Envelope(1000, 0.01)
	if e[0] != 0 {
		t.Fatalf("e[0] = %v, want 0", e[0])
	}
	if e[300] != 1 {
		t.Fatalf("plateau value = %v, want 1", e[300])
	}
	if last := e[len(e)-1]; math.Abs(last-0.02) > 1e-3 {
		t.Fatalf("tail value = %v, want ~0.02", last)
	}
}

func TestSyntheticAccelerogram(t *testing.T) {
	a := SyntheticAccelerogram(1, 1000, 0.01, 0.4)
	b := SyntheticAccelerogram(1, 1000, 0.01, 0.4)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("not deterministic at %d", i)
		}
	}

	RequireFinite(t, a)

	if p := Peak(a); math.Abs(p-0.4) > 1e-12 {
		t.Fatalf("peak = %v, want 0.4", p)
	}

	mean := 0.0
	for _, v := range a {
		mean += v
	}
	mean /= float64(len(a))
	if math.Abs(mean) > 1e-9 {
		t.Fatalf("mean = %v, want ~0", mean)
	}

	c := SyntheticAccelerogram(2, 1000, 0.01, 0.4)
	if c[500] == a[500] {
		t.Fatal("different seeds produced the same record")
	}
}
