package baseline

// Integrate returns velocity and displacement by the cumulative trapezoidal
// rule starting from v0 and d0.
func Integrate(accel []float64, dt, v0, d0 float64) (vel, disp []float64) {
	vel = make([]float64, len(accel))
	disp = make([]float64, len(accel))
	IntegrateTo(vel, disp, accel, dt, v0, d0)

	return vel, disp
}

// IntegrateTo is Integrate writing into caller-owned slices of len(accel).
func IntegrateTo(vel, disp, accel []float64, dt, v0, d0 float64) {
	if len(accel) == 0 {
		return
	}

	half := dt / 2
	vel[0], disp[0] = v0, d0

	for i := 1; i < len(accel); i++ {
		vel[i] = vel[i-1] + half*(accel[i-1]+accel[i])
		disp[i] = disp[i-1] + half*(vel[i-1]+vel[i])
	}
}
