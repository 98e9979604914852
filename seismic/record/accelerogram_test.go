package record

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccelerogram(t *testing.T) {
	src := []float64{0, 0.1, -0.3, 0.2}

	a, err := NewAccelerogram("RSN1_TEST", 0.02, src)
	require.NoError(t, err)

	assert.Equal(t, "RSN1_TEST", a.Name)
	assert.Equal(t, 4, a.Len())
	assert.InDelta(t, 0.06, a.Duration(), 1e-15)
	assert.InDelta(t, 0.3, a.PGA(), 0)
	assert.InDeltaSlice(t, []float64{0, 0.02, 0.04, 0.06}, a.Time(), 1e-15)

	src[1] = 99
	assert.Equal(t, 0.1, a.Samples()[1], "constructor must copy")

	s := a.Samples()
	s[0] = 7
	assert.Equal(t, 0.0, a.Samples()[0], "Samples must return a copy")
}

func TestNewAccelerogramErrors(t *testing.T) {
	tests := []struct {
		name    string
		dt      float64
		samples []float64
		want    error
	}{
		{"zero dt", 0, []float64{0, 1}, ErrInvalidTimeStep},
		{"negative dt", -0.01, []float64{0, 1}, ErrInvalidTimeStep},
		{"infinite dt", math.Inf(1), []float64{0, 1}, ErrInvalidTimeStep},
		{"one sample", 0.01, []float64{1}, ErrTooShort},
		{"NaN sample", 0.01, []float64{0, math.NaN()}, ErrNonFinite},
		{"Inf sample", 0.01, []float64{math.Inf(-1), 0}, ErrNonFinite},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewAccelerogram("x", tc.dt, tc.samples)
			require.ErrorIs(t, err, tc.want)
		})
	}
}
