package player

import (
	"fmt"
	"math"
)

// FormatTime renders seconds as M:SS. Minutes are unpadded; NaN, infinite
// and negative input render as 0:00.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}
	total := int64(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Bounds is the horizontal extent of a slider control
type Bounds struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

// Fraction maps a pointer position onto the control, clamped to [0,1].
// ok is false when the control has no width.
func (b Bounds) Fraction(x float64) (fraction float64, ok bool) {
	if b.Width <= 0 || math.IsNaN(x) {
		return 0, false
	}
	return clamp01((x - b.Left) / b.Width), true
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// knownDuration reports whether the engine has a usable duration
func knownDuration(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0) && d > 0
}
