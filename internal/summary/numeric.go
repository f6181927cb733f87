package summary

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ParseNumeric reports whether a cell is a numeric candidate: after trimming
// whitespace and removing ',' thousands separators the rest parses as a float.
func ParseNumeric(cell string) (float64, bool) {
	clean := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	// hex floats are accepted by ParseFloat but are not decimal numbers
	if clean == "" || strings.ContainsAny(clean, "xX") {
		return 0, false
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		// ParseFloat reports out-of-range values as ±Inf with ErrRange; keep them numeric
		if errors.Is(err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}

func describe(vals []float64) NumericStats {
	n := len(vals)
	if n == 0 {
		return NumericStats{}
	}
	var sum float64
	mn, mx := vals[0], vals[0]
	for _, v := range vals {
		sum += v
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	mean := sum / float64(n)
	std := 0.0
	if n > 1 {
		var ss float64
		for _, v := range vals {
			d := v - mean
			ss += d * d
		}
		std = math.Sqrt(ss / float64(n-1))
	}
	return NumericStats{Count: n, Mean: mean, Min: mn, Max: mx, Std: std}
}
