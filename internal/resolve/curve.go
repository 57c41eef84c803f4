package resolve

import "math"

// sigmoidSteepness widens the logistic transition to roughly the
// [-6, 6] range around the 0.5 center.
const sigmoidSteepness = 12.0

// shape applies the mapping's intensity curve to an effective activation
// in [0,1]. The result is in [0,1] before max-intensity scaling.
func shape(m Mapping, effective float64) float64 {
	switch m.Curve {
	case Exponential:
		return effective * effective
	case Sigmoid:
		return 1.0 / (1.0 + math.Exp(-(effective-0.5)*sigmoidSteepness))
	case Threshold:
		if effective < m.Threshold {
			return 0
		}
		return (effective - m.Threshold) / (1.0 - m.Threshold)
	default: // Linear and anything unconfigured
		return effective
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
