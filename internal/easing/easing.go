// Package easing maps normalized progress in [0,1] to eased progress.
//
// Every curve satisfies f(0) = 0 and f(1) = 1 exactly. Callers clamp t
// before calling; the functions do not.
package easing

import "math"

// Func is an easing curve
type Func func(t float64) float64

const (
	backOvershoot = 1.70158

	bounceN1 = 7.5625
	bounceD1 = 2.75
)

// Linear returns t unchanged
func Linear(t float64) float64 {
	return t
}

// CubicOut decelerates towards the end
func CubicOut(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// BackOut overshoots past 1 and settles back
func BackOut(t float64) float64 {
	if t == 0 || t == 1 {
		return t
	}
	c3 := backOvershoot + 1
	u := t - 1
	return 1 + c3*u*u*u + backOvershoot*u*u
}

// BounceOut is the classic four-segment bounce
func BounceOut(t float64) float64 {
	switch {
	case t < 1/bounceD1:
		return bounceN1 * t * t
	case t < 2/bounceD1:
		t -= 1.5 / bounceD1
		return bounceN1*t*t + 0.75
	case t < 2.5/bounceD1:
		t -= 2.25 / bounceD1
		return bounceN1*t*t + 0.9375
	case t == 1:
		return 1
	default:
		t -= 2.625 / bounceD1
		return bounceN1*t*t + 0.984375
	}
}

// EaseInOutCubic accelerates then decelerates
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// Clamp01 limits t to [0,1]
func Clamp01(t float64) float64 {
	if t < 0 || math.IsNaN(t) {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Lerp performs linear interpolation between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
