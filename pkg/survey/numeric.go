package survey

import (
	"math"
	"strconv"
	"strings"
)

// maxPrecision bounds the number of decimal places used for grid rounding.
const maxPrecision = 15

// sinCosDeg returns sin and cos of an angle in degrees. Quarter turns are
// exact so that vertical and horizontal stations carry no lateral drift.
func sinCosDeg(deg float64) (sin, cos float64) {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	switch r {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	return math.Sincos(r * math.Pi / 180)
}

// digitCount returns the length of the shortest decimal form of |x| after
// leading zeros and trailing fractional zeros are dropped. The decimal point
// counts, so the result is never smaller than the number of decimal places.
func digitCount(x float64) int {
	s := strconv.FormatFloat(math.Abs(x), 'f', -1, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	s = strings.TrimLeft(s, "0")
	return len(s)
}

// gridPrecision is the number of decimal places grid depths are rounded to.
func gridPrecision(values ...float64) int {
	p := 0
	for _, v := range values {
		p = max(p, digitCount(v))
	}
	return min(p, maxPrecision)
}

// roundTo rounds x to p decimal places.
func roundTo(x float64, p int) float64 {
	pow := math.Pow10(p)
	return math.Round(x*pow) / pow
}
