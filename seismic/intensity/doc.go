// Package intensity computes scalar ground-motion intensity measures of an
// accelerogram: peak values, Arias intensity, cumulative absolute velocity
// and significant durations from the Husid curve.
//
// Accelerations are expected in units of g. Velocities and displacements
// are reported in g·s and g·s²; Arias intensity in m/s.
package intensity
