package survey

import (
	"math"
	"sort"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// doglegEpsilon is the dogleg angle in radians below which a segment is
// treated as a straight line.
const doglegEpsilon = 1e-9

// reversalTolerance is how close to a half turn a dogleg may get before the
// survey is rejected; the arc between opposite directions is undefined.
const reversalTolerance = 1e-6

// Vectors in this file use the local survey frame: X east, Y north, Z down.

// direction returns the unit tangent of the hole at a station.
func direction(s Station) v3.Vec {
	sinDip, cosDip := sinCosDeg(s.Dip)
	sinAzi, cosAzi := sinCosDeg(s.Azimuth)
	return v3.Vec{X: cosDip * sinAzi, Y: cosDip * cosAzi, Z: sinDip}
}

// dogleg returns the angle in radians between the directions of two stations.
// The inclination from vertical is 90-dip, so cos(inc) = sin(dip) and
// sin(inc) = cos(dip).
func dogleg(a, b Station) float64 {
	sinA, cosA := sinCosDeg(a.Dip)
	sinB, cosB := sinCosDeg(b.Dip)
	_, cosAzi := sinCosDeg(b.Azimuth - a.Azimuth)
	c := sinA*sinB + cosA*cosB*cosAzi
	// Rounding can push c just outside [-1, 1].
	return math.Acos(math.Max(-1, math.Min(1, c)))
}

// ratioFactor is the minimum-curvature ratio factor 2/β·tan(β/2), or 1 for a
// straight segment.
func ratioFactor(beta float64) float64 {
	if beta <= doglegEpsilon {
		return 1
	}
	return 2 / beta * math.Tan(beta/2)
}

// segment is the circular arc between two consecutive stations.
type segment struct {
	top, bottom Station
	t1, t2      v3.Vec
	beta        float64
	start, end  v3.Vec // local positions at top and bottom
}

// displacement returns the offset from the top station to measured depth
// top+dmd along the arc. The direction at the partial depth is blended
// between the end directions by the fraction of the course length covered,
// then the minimum-curvature increment is applied over the partial arc.
func (sg *segment) displacement(dmd float64) v3.Vec {
	s := dmd / (sg.bottom.Depth - sg.top.Depth)
	var t v3.Vec
	var beta float64
	if sg.beta <= doglegEpsilon {
		t = sg.t1.Add(sg.t2.Sub(sg.t1).MulScalar(s))
	} else {
		sinB := math.Sin(sg.beta)
		t = sg.t1.MulScalar(math.Sin((1-s)*sg.beta) / sinB).
			Add(sg.t2.MulScalar(math.Sin(s*sg.beta) / sinB))
		beta = s * sg.beta
	}
	return sg.t1.Add(t).MulScalar(dmd / 2 * ratioFactor(beta))
}

// Trajectory is the minimum-curvature path through a fixed set of stations.
// Station positions are computed once, so evaluating any depth grid yields
// identical coordinates at every depth the grids share.
type Trajectory struct {
	stations []Station
	t0       v3.Vec // direction of a single-station survey
	segs     []segment
}

// NewTrajectory validates the stations and computes the position of every
// station relative to the first one. Stations must be strictly ascending by
// depth with finite angles.
func NewTrajectory(stations []Station) (*Trajectory, error) {
	if len(stations) == 0 {
		return nil, &Error{Kind: ErrInvalidArgument, Message: "at least one survey station is required"}
	}
	for i, s := range stations {
		if math.IsNaN(s.Depth) || math.IsInf(s.Depth, 0) || s.Depth < 0 {
			return nil, newError(ErrInvalidArgument, s.Depth, "station %d has an invalid depth", i)
		}
		if math.IsNaN(s.Dip) || math.IsInf(s.Dip, 0) || math.IsNaN(s.Azimuth) || math.IsInf(s.Azimuth, 0) {
			return nil, newError(ErrInvalidArgument, s.Depth, "station %d has a non-finite angle", i)
		}
		if i > 0 && s.Depth <= stations[i-1].Depth {
			return nil, newError(ErrInvalidArgument, s.Depth, "station %d is not below station %d", i, i-1)
		}
	}

	tr := &Trajectory{
		stations: append([]Station(nil), stations...),
		t0:       direction(stations[0]),
	}
	if len(stations) == 1 {
		return tr, nil
	}

	tr.segs = make([]segment, len(stations)-1)
	var pos v3.Vec
	for i := range tr.segs {
		top, bottom := stations[i], stations[i+1]
		sg := segment{
			top:    top,
			bottom: bottom,
			t1:     direction(top),
			t2:     direction(bottom),
			beta:   dogleg(top, bottom),
			start:  pos,
		}
		if math.Pi-sg.beta < reversalTolerance {
			return nil, newError(ErrInvalidArgument, bottom.Depth, "survey reverses direction between %g and %g", top.Depth, bottom.Depth)
		}
		pos = pos.Add(sg.displacement(bottom.Depth - top.Depth))
		sg.end = pos
		tr.segs[i] = sg
	}
	return tr, nil
}

// Top returns the depth of the first station.
func (tr *Trajectory) Top() float64 { return tr.stations[0].Depth }

// Bottom returns the deepest depth the trajectory can be evaluated at. A
// single-station survey is a straight ray and has no bottom.
func (tr *Trajectory) Bottom() float64 {
	if len(tr.segs) == 0 {
		return math.Inf(1)
	}
	return tr.stations[len(tr.stations)-1].Depth
}

func (tr *Trajectory) checkRange(d float64) error {
	if math.IsNaN(d) || d < tr.Top() || d > tr.Bottom() {
		return newError(ErrOutOfRange, d, "survey covers [%g, %g]", tr.Top(), tr.Bottom())
	}
	return nil
}

// local evaluates the position of depth d inside segment k.
func (tr *Trajectory) local(k int, d float64) v3.Vec {
	if len(tr.segs) == 0 {
		return tr.t0.MulScalar(d - tr.Top())
	}
	sg := &tr.segs[k]
	switch d {
	case sg.top.Depth:
		return sg.start
	case sg.bottom.Depth:
		return sg.end
	}
	return sg.start.Add(sg.displacement(d - sg.top.Depth))
}

// Offset returns the displacement of measured depth d from the first station
// as east, north and true vertical depth (positive down).
func (tr *Trajectory) Offset(d float64) (east, north, tvd float64, err error) {
	if err := tr.checkRange(d); err != nil {
		return 0, 0, 0, err
	}
	k := 0
	if n := len(tr.segs); n > 0 {
		k = sort.Search(n, func(i int) bool { return tr.segs[i].bottom.Depth >= d })
		k = min(k, n-1)
	}
	p := tr.local(k, d)
	return p.X, p.Y, p.Z, nil
}

// Points evaluates the trajectory at each depth and georeferences the result
// at the collar. Depths must be strictly ascending and inside the surveyed
// range; there is no partial result on error.
func (tr *Trajectory) Points(depths []float64, collar Collar) ([]PathPoint, error) {
	points := make([]PathPoint, 0, len(depths))
	prev := math.Inf(-1)
	k := 0
	for _, d := range depths {
		if err := tr.checkRange(d); err != nil {
			return nil, err
		}
		if d <= prev {
			return nil, newError(ErrInvalidArgument, d, "sample depths must be strictly ascending")
		}
		prev = d

		for k < len(tr.segs)-1 && d >= tr.segs[k].bottom.Depth {
			k++
		}
		p := tr.local(k, d)
		md := d
		points = append(points, PathPoint{
			X:     collar.Easting + p.X,
			Y:     collar.Northing + p.Y,
			Z:     collar.Elevation - p.Z,
			Depth: &md,
		})
	}
	return points, nil
}

// Interpolate computes the minimum-curvature path through stations at every
// sampled depth, anchored at collar. The collar sits at the first station's
// depth. A single station defines a straight line in its own direction.
func Interpolate(stations []Station, depths []float64, collar Collar) ([]PathPoint, error) {
	tr, err := NewTrajectory(stations)
	if err != nil {
		return nil, err
	}
	return tr.Points(depths, collar)
}
