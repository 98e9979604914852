package rotd

import (
	"errors"
	"testing"
)

func TestNewAngles(t *testing.T) {
	tests := []struct {
		step  float64
		count int
		last  float64
	}{
		{1, 180, 179},
		{45, 4, 135},
		{7, 26, 175},
		{0.5, 360, 179.5},
		{180, 1, 0},
	}

	for _, tc := range tests {
		a, err := NewAngles(tc.step)
		if err != nil {
			t.Fatalf("NewAngles(%v): %v", tc.step, err)
		}

		if a.Len() != tc.count {
			t.Fatalf("NewAngles(%v).Len() = %d, want %d", tc.step, a.Len(), tc.count)
		}

		deg := a.Degrees()
		if deg[0] != 0 || deg[len(deg)-1] != tc.last {
			t.Fatalf("NewAngles(%v) spans [%v, %v], want [0, %v]", tc.step, deg[0], deg[len(deg)-1], tc.last)
		}
	}
}

func TestNewAnglesInvalid(t *testing.T) {
	for _, step := range []float64{0, -1, 181} {
		if _, err := NewAngles(step); !errors.Is(err, ErrInvalidStep) {
			t.Fatalf("NewAngles(%v) err = %v, want ErrInvalidStep", step, err)
		}
	}

	if _, err := NewCalculator(nil, Angles{}); !errors.Is(err, ErrNoAngles) {
		t.Fatalf("NewCalculator err = %v, want ErrNoAngles", err)
	}
}

func TestDefaultAngles(t *testing.T) {
	a := DefaultAngles()
	if a.Len() != 180 {
		t.Fatalf("DefaultAngles().Len() = %d, want 180", a.Len())
	}
}
