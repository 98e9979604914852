package match

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 0.05, cfg.Damping)
	assert.Equal(t, 15, cfg.Iterations)
	assert.Equal(t, 100.0, cfg.Percentile)
	assert.False(t, cfg.Baseline)
	assert.Equal(t, -1, cfg.Order)
	assert.Equal(t, 0.95, cfg.Relaxation)
	assert.Equal(t, 10.0, cfg.MaxRatio)
	assert.Equal(t, 100, cfg.Scales)
	assert.True(t, cfg.InitialScaling)
	require.NoError(t, cfg.Validate())
}

func TestOptionsApply(t *testing.T) {
	m, err := New(
		WithDamping(0.02),
		WithPeriodWindow(0.1, 2),
		WithIterations(5),
		WithPercentile(50),
		WithBaseline(true, 2),
		WithRelaxation(0.8),
		WithMaxRatio(4),
		WithScales(60),
		WithAngleStep(5),
		WithInitialScaling(false),
		WithTolerance(3),
		WithWorkers(2),
	)
	require.NoError(t, err)

	cfg := m.Config()
	assert.Equal(t, 0.02, cfg.Damping)
	assert.Equal(t, [2]float64{0.1, 2}, [2]float64{cfg.T1, cfg.T2})
	assert.Equal(t, 5, cfg.Iterations)
	assert.Equal(t, 50.0, cfg.Percentile)
	assert.True(t, cfg.Baseline)
	assert.Equal(t, 2, cfg.Order)
	assert.Equal(t, 0.8, cfg.Relaxation)
	assert.Equal(t, 4.0, cfg.MaxRatio)
	assert.Equal(t, 60, cfg.Scales)
	assert.Equal(t, 5.0, cfg.AngleStep)
	assert.False(t, cfg.InitialScaling)
	assert.Equal(t, 3.0, cfg.Tolerance)
	assert.Equal(t, 2, cfg.Workers)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name  string
		opt   Option
		field string
	}{
		{"damping negative", WithDamping(-0.1), "damping"},
		{"damping one", WithDamping(1), "damping"},
		{"window reversed", WithPeriodWindow(2, 1), "t1"},
		{"window equal", WithPeriodWindow(1, 1), "t1"},
		{"window half open", WithPeriodWindow(0, 1), "t1"},
		{"window negative", WithPeriodWindow(-1, 1), "t1"},
		{"zero iterations", WithIterations(0), "nit"},
		{"percentile high", WithPercentile(101), "percentile"},
		{"percentile negative", WithPercentile(-5), "percentile"},
		{"order too high", WithBaseline(true, 11), "order"},
		{"relaxation zero", WithRelaxation(0), "relaxation"},
		{"relaxation above one", WithRelaxation(1.5), "relaxation"},
		{"max ratio one", WithMaxRatio(1), "maxratio"},
		{"one scale", WithScales(1), "scales"},
		{"angle step zero", WithAngleStep(0), "anglestep"},
		{"negative tolerance", WithTolerance(-1), "tolerance"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.opt)
			require.ErrorIs(t, err, ErrConfiguration)

			var ce *ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tc.field, ce.Field)
			assert.NotErrorIs(t, err, ErrData)
		})
	}
}

func TestParseConfig(t *testing.T) {
	v, err := url.ParseQuery("damping=0.03&t1=0.1&t2=3&nit=20&percentile=50&baseline=true&order=1&relaxation=0.9&scales=80")
	require.NoError(t, err)

	cfg, err := ParseConfig(v)
	require.NoError(t, err)

	assert.Equal(t, 0.03, cfg.Damping)
	assert.Equal(t, 0.1, cfg.T1)
	assert.Equal(t, 3.0, cfg.T2)
	assert.Equal(t, 20, cfg.Iterations)
	assert.Equal(t, 50.0, cfg.Percentile)
	assert.True(t, cfg.Baseline)
	assert.Equal(t, 1, cfg.Order)
	assert.Equal(t, 0.9, cfg.Relaxation)
	assert.Equal(t, 80, cfg.Scales)

	// Unset keys keep their defaults.
	assert.Equal(t, 10.0, cfg.MaxRatio)
	assert.True(t, cfg.InitialScaling)

	m, err := New(WithConfig(cfg), WithIterations(3))
	require.NoError(t, err)
	assert.Equal(t, 3, m.Config().Iterations)
	assert.Equal(t, 0.03, m.Config().Damping)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		field string
	}{
		{"unknown key", "dampng=0.05", "dampng"},
		{"not a number", "nit=many", "nit"},
		{"invalid window", "t1=3&t2=1", "t1"},
		{"invalid percentile", "percentile=150", "percentile"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := url.ParseQuery(tc.query)
			require.NoError(t, err)

			_, err = ParseConfig(v)
			require.Error(t, err)

			var ce *ConfigurationError
			require.True(t, errors.As(err, &ce), "got %T", err)
			assert.Equal(t, tc.field, ce.Field)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}
