package survey

import "fmt"

// ---------------------------------------------------------------------------
// Survey input
// ---------------------------------------------------------------------------

// Station is a single directional-survey measurement.
type Station struct {
	Depth   float64 `json:"depth"`   // measured depth
	Dip     float64 `json:"dip"`     // degrees from horizontal, 90 = straight down
	Azimuth float64 `json:"azimuth"` // degrees clockwise from north
}

func (s Station) String() string {
	return fmt.Sprintf("(station md=%g dip=%g azi=%g)", s.Depth, s.Dip, s.Azimuth)
}

// Collar is the world-space anchor of a borehole at its first measured depth.
type Collar struct {
	Easting   float64 `json:"easting"`
	Northing  float64 `json:"northing"`
	Elevation float64 `json:"elevation"`
}

// ---------------------------------------------------------------------------
// Boundary intervals
// ---------------------------------------------------------------------------

// Boundary is implemented by anything spanning a measured-depth range whose
// edges must appear in the sampled depth grid.
type Boundary interface {
	Range() (from, to float64)
}

// Casing is a structural lining installed over a measured-depth range.
type Casing struct {
	From   float64 `json:"depth_from"`
	To     float64 `json:"depth_to"`
	Radius float64 `json:"casing_radius"`
}

// Range returns the casing's measured-depth range.
func (c Casing) Range() (from, to float64) { return c.From, c.To }

// Interval is a measured-depth range labeled with a rock or soil type.
type Interval struct {
	From      float64 `json:"depth_from"`
	To        float64 `json:"depth_to"`
	Lithology string  `json:"lithology"`
}

// Range returns the interval's measured-depth range.
func (iv Interval) Range() (from, to float64) { return iv.From, iv.To }

// ---------------------------------------------------------------------------
// Output
// ---------------------------------------------------------------------------

// PathPoint is a georeferenced point of the borehole path. Depth is the
// measured depth that produced the point; it is nil only for points added by
// consumers that are not tied to a sampled depth.
type PathPoint struct {
	X     float64  `json:"x"` // easting
	Y     float64  `json:"y"` // northing
	Z     float64  `json:"z"` // elevation
	Depth *float64 `json:"depth"`
}

// MeasuredDepth returns the point's measured depth and whether it has one.
func (p PathPoint) MeasuredDepth() (float64, bool) {
	if p.Depth == nil {
		return 0, false
	}
	return *p.Depth, true
}

func (p PathPoint) String() string {
	if p.Depth == nil {
		return fmt.Sprintf("(%.3f %.3f %.3f)", p.X, p.Y, p.Z)
	}
	return fmt.Sprintf("(%.3f %.3f %.3f md=%g)", p.X, p.Y, p.Z, *p.Depth)
}
