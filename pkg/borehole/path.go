package borehole

import (
	"math"
	"sort"

	"github.com/chazu/borepath/pkg/survey"
)

// Path is the computed, georeferenced path of one borehole. Depths[i] is the
// measured depth of Points[i]. A Path is never modified after Compute returns.
type Path struct {
	HoleID  string             `json:"hole_id"`
	Version uint64             `json:"version,omitempty"` // Borehole version it was computed from
	Depths  []float64          `json:"depths"`
	Points  []survey.PathPoint `json:"points"`

	casings   []survey.Casing
	intervals []survey.Interval
}

// Segment is the part of a path covered by one casing or interval. Exactly
// one of Casing and Interval is set.
type Segment struct {
	From     float64
	To       float64
	Points   []survey.PathPoint
	Casing   *survey.Casing
	Interval *survey.Interval
}

// Between returns the points whose measured depth lies in [from, to]. The
// result shares storage with the path.
func (p *Path) Between(from, to float64) []survey.PathPoint {
	lo := sort.SearchFloat64s(p.Depths, from)
	hi := sort.Search(len(p.Depths), func(i int) bool { return p.Depths[i] > to })
	if lo >= hi {
		return nil
	}
	return p.Points[lo:hi:hi]
}

// CasingSegments returns one segment per casing, in casing order.
func (p *Path) CasingSegments() []Segment {
	segs := make([]Segment, 0, len(p.casings))
	for i := range p.casings {
		c := &p.casings[i]
		segs = append(segs, Segment{From: c.From, To: c.To, Points: p.Between(c.From, c.To), Casing: c})
	}
	return segs
}

// IntervalSegments returns one segment per lithology interval, in order.
func (p *Path) IntervalSegments() []Segment {
	segs := make([]Segment, 0, len(p.intervals))
	for i := range p.intervals {
		iv := &p.intervals[i]
		segs = append(segs, Segment{From: iv.From, To: iv.To, Points: p.Between(iv.From, iv.To), Interval: iv})
	}
	return segs
}

// Length returns the length of the polyline through the path's points.
func (p *Path) Length() float64 {
	var l float64
	for i := 1; i < len(p.Points); i++ {
		a, b := p.Points[i-1], p.Points[i]
		l += math.Sqrt((b.X-a.X)*(b.X-a.X) + (b.Y-a.Y)*(b.Y-a.Y) + (b.Z-a.Z)*(b.Z-a.Z))
	}
	return l
}
