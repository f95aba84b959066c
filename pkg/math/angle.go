package math

import "math"

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return float32(float64(deg) * math.Pi / 180.0)
}

// Degrees converts radians to degrees.
func Degrees(rad float32) float32 {
	return float32(float64(rad) * 180.0 / math.Pi)
}

// WrapDegrees folds an angle into (-limit, limit] with period 2*limit using
// the floating-point remainder. NaN and infinite input yield 0.
func WrapDegrees(angle, limit float32) float32 {
	a := float64(angle)
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	period := 2 * float64(limit)
	a = math.Mod(a, period)
	if a > float64(limit) {
		a -= period
	} else if a <= -float64(limit) {
		a += period
	}
	r := float32(a)
	// float32 rounding can land exactly on the excluded lower bound.
	if r <= -limit {
		r += 2 * limit
	}
	return r
}

// Clamp limits v to [lo, hi]. NaN yields lo.
func Clamp(v, lo, hi float32) float32 {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampUnit limits v to the [-1, 1] domain of asin and acos.
func ClampUnit(v float32) float32 {
	if v != v {
		return 0
	}
	return Clamp(v, -1, 1)
}

// Asin returns asin(v) in degrees with v clamped into the valid domain.
func Asin(v float32) float32 {
	return Degrees(float32(math.Asin(float64(ClampUnit(v)))))
}

// Acos returns acos(v) in degrees with v clamped into the valid domain.
func Acos(v float32) float32 {
	return Degrees(float32(math.Acos(float64(ClampUnit(v)))))
}

// Sin returns the sine of an angle given in degrees.
func Sin(deg float32) float32 {
	return float32(math.Sin(float64(deg) * math.Pi / 180.0))
}

// Cos returns the cosine of an angle given in degrees.
func Cos(deg float32) float32 {
	return float32(math.Cos(float64(deg) * math.Pi / 180.0))
}
