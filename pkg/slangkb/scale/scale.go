// Package scale holds the log intensity transform shared by graph and
// heatmap consumers: colours are driven by ln(v+1) and legends show the
// inverse.
package scale

import "math"

// Intensity maps a raw count onto the displayed log scale, ln(v+1).
// Negative inputs are clamped to zero.
func Intensity(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Log1p(v)
}

// Inverse maps a displayed intensity back to the raw integer count,
// round(exp(d)-1).
func Inverse(d float64) int64 {
	if d <= 0 {
		return 0
	}
	return int64(math.Round(math.Expm1(d)))
}
