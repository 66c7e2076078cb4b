package survey

import (
	"math"
	"slices"
)

// SampleDepths returns the strictly ascending measured depths at which a path
// starting at depth 0 must be evaluated. It is SampleDepthsFrom with start 0.
func SampleDepths(maxDepth, spacing float64, casings []Casing, intervals []Interval) ([]float64, error) {
	return SampleDepthsFrom(0, maxDepth, spacing, casings, intervals)
}

// SampleDepthsFrom returns the strictly ascending, duplicate-free measured
// depths of a path that begins at start (usually the first station depth).
//
// The result holds the regular grid start, start+spacing, ... below maxDepth,
// maxDepth itself, and both edges of every casing and interval. Grid values are
// rounded to the digit precision of spacing, maxDepth and start so repeated
// multiples never produce near-duplicate depths. Boundary depths are inserted
// unrounded, so consumers can slice the path on them by exact comparison.
func SampleDepthsFrom(start, maxDepth, spacing float64, casings []Casing, intervals []Interval) ([]float64, error) {
	if !(spacing > 0) || math.IsInf(spacing, 0) {
		return nil, newError(ErrInvalidArgument, spacing, "spacing must be positive")
	}
	if !(maxDepth > 0) || math.IsInf(maxDepth, 0) {
		return nil, newError(ErrInvalidArgument, maxDepth, "max depth must be positive")
	}
	if !(start >= 0) || start >= maxDepth {
		return nil, newError(ErrInvalidArgument, start, "start depth must lie in [0, %g)", maxDepth)
	}

	bounds := make([]Boundary, 0, len(casings)+len(intervals))
	for _, c := range casings {
		bounds = append(bounds, c)
	}
	for _, iv := range intervals {
		bounds = append(bounds, iv)
	}
	if err := checkBoundaries(start, maxDepth, bounds); err != nil {
		return nil, err
	}

	prec := gridPrecision(spacing, maxDepth, start)
	n := int(math.Ceil((maxDepth-start)/spacing)) + 1
	depths := make([]float64, 0, n+2*len(bounds))
	seen := make(map[float64]struct{}, n)
	add := func(d float64) {
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		depths = append(depths, d)
	}

	for i := 0; ; i++ {
		d := start + float64(i)*spacing
		if d >= maxDepth {
			break
		}
		add(roundTo(d, prec))
	}
	add(maxDepth)

	for _, b := range bounds {
		from, to := b.Range()
		add(from)
		add(to)
	}

	slices.Sort(depths)
	return slices.Compact(depths), nil
}

// checkBoundaries rejects ranges that are inverted, empty, or reach outside
// [start, maxDepth]. Overlap between ranges is the consumer's concern.
func checkBoundaries(start, maxDepth float64, bounds []Boundary) error {
	for _, b := range bounds {
		from, to := b.Range()
		switch {
		case math.IsNaN(from) || from < start:
			return newError(ErrInvalidBoundary, from, "boundary starts before %g", start)
		case math.IsNaN(to) || to > maxDepth:
			return newError(ErrInvalidBoundary, to, "boundary ends beyond max depth %g", maxDepth)
		case from >= to:
			return newError(ErrInvalidBoundary, from, "boundary from %g must be less than to %g", from, to)
		}
	}
	return nil
}
