package match

import (
	"errors"
	"fmt"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrConfiguration = errors.New("match: invalid configuration")
	ErrData          = errors.New("match: invalid input data")
)

// ConfigurationError reports an invalid parameter or an inconsistent
// parameter/target combination. It is raised before any computation.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
	Err    error // underlying cause, if any
}

func configError(field string, value any, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Field == "":
		return fmt.Sprintf("match: configuration: %s", e.Reason)
	case e.Value == nil:
		return fmt.Sprintf("match: configuration %s: %s", e.Field, e.Reason)
	default:
		return fmt.Sprintf("match: configuration %s = %v: %s", e.Field, e.Value, e.Reason)
	}
}

// Is reports ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

func (e *ConfigurationError) Unwrap() error { return e.Err }

// DataError reports unusable input records or target spectra.
type DataError struct {
	Field  string // "seed", "seed2" or "target"
	Reason string
	Err    error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("match: %s: %s", e.Field, e.Reason)
}

// Is reports ErrData.
func (e *DataError) Is(target error) bool { return target == ErrData }

func (e *DataError) Unwrap() error { return e.Err }

func dataError(field string, err error) *DataError {
	return &DataError{Field: field, Reason: err.Error(), Err: err}
}

// WarningKind classifies a NumericalWarning.
type WarningKind string

// Warning kinds.
const (
	// NearZeroResponse: the response at a period was too small or not finite;
	// its correction was skipped for that iteration.
	NearZeroResponse WarningKind = "near-zero-response"
	// ClampedRatio: the target/response ratio exceeded MaxRatio and was clamped.
	ClampedRatio WarningKind = "clamped-ratio"
	// ZeroTarget: the target is not positive at an active period, which is
	// excluded from corrections and error metrics.
	ZeroTarget WarningKind = "zero-target"
	// NotConverged: the tolerance was not reached within the budget.
	NotConverged WarningKind = "not-converged"
	// BaselineIncomplete: the end correction was skipped or did not converge.
	BaselineIncomplete WarningKind = "baseline-incomplete"
)

// NumericalWarning is a non-fatal event recorded during matching.
type NumericalWarning struct {
	Iteration int
	Period    float64 // 0 when not tied to a period
	Kind      WarningKind
	Ratio     float64 // raw ratio for ClampedRatio, metric value for NotConverged
}

func (w NumericalWarning) String() string {
	if w.Period > 0 {
		return fmt.Sprintf("iteration %d, T=%.4g s: %s (%.4g)", w.Iteration, w.Period, w.Kind, w.Ratio)
	}

	return fmt.Sprintf("iteration %d: %s (%.4g)", w.Iteration, w.Kind, w.Ratio)
}
