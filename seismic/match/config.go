package match

import (
	"fmt"
	"math"
	"net/url"
	"sort"

	"github.com/gorilla/schema"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-specmatch/seismic/baseline"
)

// Config holds the matching parameters. The schema tags name the keys
// accepted by ParseConfig.
type Config struct {
	Damping        float64 `schema:"damping"`    // oscillator damping ratio
	T1             float64 `schema:"t1"`         // window start in seconds
	T2             float64 `schema:"t2"`         // window end; T1 = T2 = 0 selects the target's range
	Iterations     int     `schema:"nit"`        // iteration budget
	Percentile     float64 `schema:"percentile"` // RotDnn percentile, pair matching only
	Baseline       bool    `schema:"baseline"`   // baseline-correct the returned iterate
	Order          int     `schema:"order"`      // detrending order, -1 disables
	Relaxation     float64 `schema:"relaxation"` // fraction of the raw ratio applied per iteration
	MaxRatio       float64 `schema:"maxratio"`   // per-iteration ratio bound
	Scales         int     `schema:"scales"`     // wavelet bands
	AngleStep      float64 `schema:"anglestep"`  // RotDnn angle resolution in degrees
	InitialScaling bool    `schema:"scaling"`    // scale the seed to the target before iterating
	Tolerance      float64 `schema:"tolerance"`  // stop once RMSE (%) drops below; 0 runs all iterations
	Workers        int     `schema:"workers"`    // period-loop goroutines, 0 = GOMAXPROCS

	Logger *zap.Logger `schema:"-"`
}

// DefaultConfig returns the defaults used by New.
func DefaultConfig() Config {
	return Config{
		Damping:        0.05,
		Iterations:     15,
		Percentile:     100,
		Order:          -1,
		Relaxation:     0.95,
		MaxRatio:       10,
		Scales:         100,
		AngleStep:      1,
		InitialScaling: true,
	}
}

// Option adjusts a Config.
type Option func(*Config)

// WithConfig replaces the whole configuration, e.g. with one from ParseConfig.
// Options after it still apply.
func WithConfig(cfg Config) Option {
	return func(c *Config) { *c = cfg }
}

// WithDamping sets the oscillator damping ratio.
func WithDamping(zeta float64) Option {
	return func(c *Config) { c.Damping = zeta }
}

// WithPeriodWindow sets the matching window [t1, t2] in seconds.
func WithPeriodWindow(t1, t2 float64) Option {
	return func(c *Config) { c.T1, c.T2 = t1, t2 }
}

// WithIterations sets the iteration budget.
func WithIterations(n int) Option {
	return func(c *Config) { c.Iterations = n }
}

// WithPercentile selects the RotDnn percentile for pair matching.
func WithPercentile(p float64) Option {
	return func(c *Config) { c.Percentile = p }
}

// WithBaseline enables baseline correction with the given detrending order
// (-1 keeps only the end correction).
func WithBaseline(enabled bool, order int) Option {
	return func(c *Config) { c.Baseline, c.Order = enabled, order }
}

// WithRelaxation sets the fraction of each raw correction ratio applied.
func WithRelaxation(r float64) Option {
	return func(c *Config) { c.Relaxation = r }
}

// WithMaxRatio bounds a single correction to [1/r, r].
func WithMaxRatio(r float64) Option {
	return func(c *Config) { c.MaxRatio = r }
}

// WithScales sets the number of wavelet bands.
func WithScales(n int) Option {
	return func(c *Config) { c.Scales = n }
}

// WithAngleStep sets the RotDnn rotation increment in degrees.
func WithAngleStep(deg float64) Option {
	return func(c *Config) { c.AngleStep = deg }
}

// WithInitialScaling toggles the uniform pre-scaling of the seed.
func WithInitialScaling(on bool) Option {
	return func(c *Config) { c.InitialScaling = on }
}

// WithTolerance stops iterating once the RMSE in percent drops below tol.
func WithTolerance(tol float64) Option {
	return func(c *Config) { c.Tolerance = tol }
}

// WithWorkers bounds the goroutines of the period loops.
func WithWorkers(n int) Option {
	return func(c *Config) { c.Workers = n }
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// Validate checks every field and returns a *ConfigurationError for the
// first invalid one.
func (c Config) Validate() error {
	switch {
	case !(c.Damping >= 0 && c.Damping < 1):
		return configError("damping", c.Damping, "must be in [0, 1)")
	case c.T1 < 0 || c.T2 < 0 || math.IsNaN(c.T1) || math.IsNaN(c.T2) || math.IsInf(c.T2, 0):
		return configError("t1", [2]float64{c.T1, c.T2}, "window bounds must be finite and non-negative")
	case (c.T1 != 0 || c.T2 != 0) && !(c.T1 > 0 && c.T1 < c.T2):
		return configError("t1", [2]float64{c.T1, c.T2}, "window needs 0 < T1 < T2")
	case c.Iterations < 1:
		return configError("nit", c.Iterations, "must be >= 1")
	case !(c.Percentile >= 0 && c.Percentile <= 100):
		return configError("percentile", c.Percentile, "must be in [0, 100]")
	case c.Order > baseline.MaxOrder:
		return configError("order", c.Order, fmt.Sprintf("must be <= %d", baseline.MaxOrder))
	case !(c.Relaxation > 0 && c.Relaxation <= 1):
		return configError("relaxation", c.Relaxation, "must be in (0, 1]")
	case !(c.MaxRatio > 1) || math.IsInf(c.MaxRatio, 1):
		return configError("maxratio", c.MaxRatio, "must be a finite value > 1")
	case c.Scales < 2:
		return configError("scales", c.Scales, "must be >= 2")
	case !(c.AngleStep > 0 && c.AngleStep <= 180):
		return configError("anglestep", c.AngleStep, "must be in (0, 180]")
	case !(c.Tolerance >= 0) || math.IsInf(c.Tolerance, 1):
		return configError("tolerance", c.Tolerance, "must be finite and >= 0")
	}

	return nil
}

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(false)

	return d
}

// ParseConfig decodes query-style parameters on top of DefaultConfig and
// validates the result.
//
//	damping=0.05&t1=0.05&t2=4&nit=15&baseline=true&order=1
func ParseConfig(values url.Values) (Config, error) {
	cfg := DefaultConfig()

	if err := newDecoder().Decode(&cfg, values); err != nil {
		return Config{}, decodeError(err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// decodeError reports the first offending key of a schema error in a
// stable order.
func decodeError(err error) error {
	multi, ok := err.(schema.MultiError)
	if !ok || len(multi) == 0 {
		return &ConfigurationError{Reason: err.Error(), Err: err}
	}

	keys := make([]string, 0, len(multi))
	for k := range multi {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	first := multi[keys[0]]
	reason := first.Error()

	switch e := first.(type) {
	case schema.UnknownKeyError:
		reason = "unknown parameter"
	case schema.ConversionError:
		reason = "cannot parse as " + e.Type.String()
	}

	return &ConfigurationError{Field: keys[0], Reason: reason, Err: first}
}
