package util

import "math"

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Wrap maps v into the half open range [lo, hi), e.g. a longitude of 190
// becomes -170 for the range [-180, 180).
func Wrap(v, lo, hi float64) float64 {
	if v >= lo && v < hi {
		return v
	}

	width := hi - lo
	r := math.Mod(v-lo, width)
	if r < 0 {
		r += width
	}
	return r + lo
}
