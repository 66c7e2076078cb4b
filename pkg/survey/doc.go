// Package survey turns directional-survey stations of a drilled hole into a
// georeferenced 3D path.
//
// Two steps are applied in sequence. SampleDepths builds the ascending grid of
// measured depths at which the path must be evaluated: the regular sampling
// interval, every casing and lithology boundary, and the maximum depth.
// Interpolate then evaluates the minimum-curvature path at each of those depths
// and anchors it at the collar.
//
// Angles are in degrees. Dip is measured from horizontal (0 = horizontal,
// 90 = straight down) and azimuth clockwise from north. Depths share the linear
// unit of the collar coordinates. In output coordinates X is easting, Y is
// northing and Z is elevation, which decreases as measured depth increases.
//
// All functions are pure and safe for concurrent use on distinct inputs.
package survey
