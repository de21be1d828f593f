package num

import (
	"math"
	"strconv"
	"strings"
)

// ToNumber maps NaN and ±Inf to 0 so nothing non-finite reaches a formula.
func ToNumber(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Parse converts raw form text to a number. Blank or unparsable text is 0.
func Parse(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return ToNumber(v)
}

// Valid reports whether s holds a finite number.
func Valid(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func MmToM(mm float64) float64 {
	return ToNumber(mm) / 1000
}

// Format renders v with fixed decimals; a missing or NaN value renders as "--".
func Format(v *float64, decimals int) string {
	if v == nil || math.IsNaN(*v) {
		return "--"
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64)
}
