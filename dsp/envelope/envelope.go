package envelope

// Follower tracks the magnitude of its input with independent attack and
// release coefficients. It does not know or care whether its input and
// output are linear or dB values.
type Follower struct {
	value       float64
	attackCoef  float64
	releaseCoef float64
}

// New returns a Follower with the given attack and release coefficients,
// each expected in (0, 1].
func New(attackCoef, releaseCoef float64) *Follower {
	return &Follower{attackCoef: attackCoef, releaseCoef: releaseCoef}
}

// SetCoefficients replaces the attack and release coefficients in place.
func (f *Follower) SetCoefficients(attackCoef, releaseCoef float64) {
	f.attackCoef = attackCoef
	f.releaseCoef = releaseCoef
}

// Value returns the current tracked value.
func (f *Follower) Value() float64 {
	return f.value
}

// Process feeds one input sample and returns the updated envelope value.
// Rising values (|x| > envelope) use the attack coefficient; falling
// values use the release coefficient.
func (f *Follower) Process(x float64) float64 {
	mag := x
	if mag < 0 {
		mag = -mag
	}
	if mag > f.value {
		f.value += f.attackCoef * (mag - f.value)
	} else {
		f.value += f.releaseCoef * (mag - f.value)
	}
	return f.value
}

// Reset zeros the tracked envelope value.
func (f *Follower) Reset() {
	f.value = 0
}
