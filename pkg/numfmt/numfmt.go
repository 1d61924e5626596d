// Package numfmt renders numbers the way MeshLab scripts and measurement
// summaries expect them: shortest round-trip decimals that always carry a
// fractional part.
package numfmt

import (
	"math"
	"strconv"
	"strings"
)

// Float formats v as the shortest decimal that parses back to v.
// Integral values keep a trailing ".0" and very large or very small
// magnitudes switch to exponent form (1e-05, 1e+16).
func Float(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Floats formats a slice as "[a, b, c]".
func Floats(vs []float64) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range vs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Float(v))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Bool formats b as lowercase "true" or "false".
func Bool(b bool) string {
	return strconv.FormatBool(b)
}
