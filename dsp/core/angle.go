package core

import "math"

// WrapPi maps an angle in radians to the half-open interval (-pi, pi].
func WrapPi(ang float64) float64 {
	ang = math.Mod(ang, 2*math.Pi)
	if ang > math.Pi {
		ang -= 2 * math.Pi
	} else if ang <= -math.Pi {
		ang += 2 * math.Pi
	}

	return ang
}

// WrapPiSlice wraps every element of angles in place. See [WrapPi].
func WrapPiSlice(angles []float64) {
	for i, a := range angles {
		angles[i] = WrapPi(a)
	}
}
