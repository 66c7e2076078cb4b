package survey

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
)

var testCollar = Collar{Easting: 500, Northing: 1000, Elevation: 200}

func point(x, y, z, md float64) PathPoint {
	return PathPoint{X: x, Y: y, Z: z, Depth: &md}
}

func mustDepths(t *testing.T, maxDepth, spacing float64) []float64 {
	t.Helper()
	d, err := SampleDepths(maxDepth, spacing, nil, nil)
	if err != nil {
		t.Fatalf("SampleDepths(%v, %v): %v", maxDepth, spacing, err)
	}
	return d
}

// ---------------------------------------------------------------------------
// Minimum-curvature primitives
// ---------------------------------------------------------------------------

func TestDoglegClampsIdenticalDirections(t *testing.T) {
	s := Station{Depth: 0, Dip: 33.3, Azimuth: 127.1}
	beta := dogleg(s, s)
	if math.IsNaN(beta) {
		t.Fatal("dogleg of identical stations is NaN")
	}
	if beta > 1e-7 {
		t.Errorf("dogleg of identical stations = %v, want ~0", beta)
	}
}

func TestRatioFactor(t *testing.T) {
	if got := ratioFactor(0); got != 1 {
		t.Errorf("ratioFactor(0) = %v, want 1", got)
	}
	if got := ratioFactor(1e-12); got != 1 {
		t.Errorf("ratioFactor(1e-12) = %v, want 1", got)
	}
	beta := math.Pi / 2
	want := 2 / beta * math.Tan(beta/2)
	if got := ratioFactor(beta); got != want {
		t.Errorf("ratioFactor(pi/2) = %v, want %v", got, want)
	}
}

// ---------------------------------------------------------------------------
// Path properties
// ---------------------------------------------------------------------------

func TestInterpolateStraightVertical(t *testing.T) {
	stations := []Station{{Depth: 0, Dip: 90, Azimuth: 0}}
	depths := mustDepths(t, 20, 0.5)

	got, err := Interpolate(stations, depths, testCollar)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	want := make([]PathPoint, len(depths))
	for i, d := range depths {
		want[i] = point(testCollar.Easting, testCollar.Northing, testCollar.Elevation-d, d)
	}
	diff(t, want, got)
}

func TestInterpolateTwoVerticalStations(t *testing.T) {
	stations := []Station{{Depth: 0, Dip: 90}, {Depth: 30, Dip: 90}}
	depths := mustDepths(t, 30, 0.25)

	got, err := Interpolate(stations, depths, testCollar)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	for i, p := range got {
		d := depths[i]
		if p.X != testCollar.Easting || p.Y != testCollar.Northing {
			t.Errorf("depth %v: lateral drift to (%v, %v)", d, p.X, p.Y)
		}
		if math.Abs(p.Z-(testCollar.Elevation-d)) > 1e-9 {
			t.Errorf("depth %v: Z = %v, want %v", d, p.Z, testCollar.Elevation-d)
		}
	}
}

func TestInterpolateHorizontalEast(t *testing.T) {
	stations := []Station{{Depth: 0, Dip: 0, Azimuth: 90}}
	got, err := Interpolate(stations, []float64{0, 4, 8}, testCollar)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	diff(t, []PathPoint{
		point(500, 1000, 200, 0),
		point(504, 1000, 200, 4),
		point(508, 1000, 200, 8),
	}, got)
}

func TestInterpolateCollarAnchoring(t *testing.T) {
	surveys := map[string][]Station{
		"vertical":   {{Depth: 0, Dip: 90}},
		"inclined":   {{Depth: 0, Dip: 60, Azimuth: 45}, {Depth: 50, Dip: 55, Azimuth: 60}},
		"horizontal": {{Depth: 0, Dip: 0, Azimuth: 270}, {Depth: 10, Dip: 5, Azimuth: 260}},
	}
	for name, stations := range surveys {
		t.Run(name, func(t *testing.T) {
			got, err := Interpolate(stations, []float64{0, 5, 10}, testCollar)
			if err != nil {
				t.Fatalf("Interpolate: %v", err)
			}
			diff(t, point(500, 1000, 200, 0), got[0])
		})
	}
}

func TestInterpolateCollarAtNonZeroFirstStation(t *testing.T) {
	stations := []Station{{Depth: 5, Dip: 90}}
	got, err := Interpolate(stations, []float64{5, 6, 7}, testCollar)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	diff(t, []PathPoint{
		point(500, 1000, 200, 5),
		point(500, 1000, 199, 6),
		point(500, 1000, 198, 7),
	}, got)

	_, err = Interpolate(stations, []float64{4, 5}, testCollar)
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("depth above first station: error = %v, want ErrOutOfRange", err)
	}
}

func TestInterpolateDegenerateDogleg(t *testing.T) {
	stations := []Station{{Depth: 0, Dip: 60, Azimuth: 30}, {Depth: 50, Dip: 60, Azimuth: 30}}
	depths := mustDepths(t, 50, 1)

	got, err := Interpolate(stations, depths, testCollar)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	dir := direction(stations[0])
	for i := 1; i < len(got); i++ {
		dx := got[i].X - got[i-1].X
		dy := got[i].Y - got[i-1].Y
		dz := got[i-1].Z - got[i].Z
		if math.Abs(dx-dir.X) > 1e-9 || math.Abs(dy-dir.Y) > 1e-9 || math.Abs(dz-dir.Z) > 1e-9 {
			t.Fatalf("step %d = (%v, %v, %v), want constant (%v, %v, %v)", i, dx, dy, dz, dir.X, dir.Y, dir.Z)
		}
	}
}

func TestInterpolateMatchesCircularArc(t *testing.T) {
	// Horizontal due north turning to 45 degrees down: a circular arc in the
	// north/down plane with radius L/beta.
	stations := []Station{{Depth: 0, Dip: 0, Azimuth: 0}, {Depth: 10, Dip: 45, Azimuth: 0}}
	beta := math.Pi / 4
	radius := 10 / beta

	got, err := Interpolate(stations, []float64{0, 2.5, 5, 10}, testCollar)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	for _, p := range got {
		md, _ := p.MeasuredDepth()
		phi := beta * md / 10
		wantNorth := radius * math.Sin(phi)
		wantTVD := radius * (1 - math.Cos(phi))
		if math.Abs(p.X-500) > 1e-12 {
			t.Errorf("md %v: easting drift %v", md, p.X-500)
		}
		if math.Abs((p.Y-1000)-wantNorth) > 1e-9 {
			t.Errorf("md %v: north = %v, want %v", md, p.Y-1000, wantNorth)
		}
		if math.Abs((200-p.Z)-wantTVD) > 1e-9 {
			t.Errorf("md %v: tvd = %v, want %v", md, 200-p.Z, wantTVD)
		}
	}
}

func TestInterpolateConcreteScenario(t *testing.T) {
	stations := []Station{{Depth: 0, Dip: 0, Azimuth: 0}, {Depth: 10, Dip: 45, Azimuth: 0}}
	depths, err := SampleDepths(10, 1.0, nil, nil)
	if err != nil {
		t.Fatalf("SampleDepths: %v", err)
	}
	diff(t, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, depths)

	got, err := Interpolate(stations, depths, testCollar)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	if len(got) != 11 {
		t.Fatalf("got %d points, want 11", len(got))
	}
	diff(t, point(500, 1000, 200, 0), got[0])

	last := got[10]
	if last.Z >= 200 {
		t.Errorf("elevation at md 10 = %v, want < 200", last.Z)
	}
	if last.Y == 1000 {
		t.Error("expected a northing offset at md 10")
	}
	for i := 1; i < len(got); i++ {
		if *got[i].Depth <= *got[i-1].Depth {
			t.Errorf("depths not increasing at %d", i)
		}
		if got[i].X == got[i-1].X && got[i].Y == got[i-1].Y && got[i].Z == got[i-1].Z {
			t.Errorf("points %d and %d coincide", i-1, i)
		}
	}
}

func TestInterpolateMonotonicRefinement(t *testing.T) {
	stations := []Station{
		{Depth: 0, Dip: 90, Azimuth: 0},
		{Depth: 30, Dip: 80, Azimuth: 45},
		{Depth: 60, Dip: 70, Azimuth: 60},
		{Depth: 100, Dip: 65, Azimuth: 90},
	}
	coarse, err := Interpolate(stations, mustDepths(t, 100, 10), testCollar)
	if err != nil {
		t.Fatalf("coarse: %v", err)
	}
	fine, err := Interpolate(stations, mustDepths(t, 100, 2.5), testCollar)
	if err != nil {
		t.Fatalf("fine: %v", err)
	}

	byDepth := make(map[float64]PathPoint, len(fine))
	for _, p := range fine {
		byDepth[*p.Depth] = p
	}
	for _, p := range coarse {
		f, ok := byDepth[*p.Depth]
		if !ok {
			t.Fatalf("fine grid is missing depth %v", *p.Depth)
		}
		diff(t, p, f)
	}
}

func TestInterpolateDeterministic(t *testing.T) {
	stations := []Station{{Depth: 0, Dip: 75, Azimuth: 10}, {Depth: 42, Dip: 68, Azimuth: 33}}
	depths := mustDepths(t, 42, 0.7)
	a, err := Interpolate(stations, depths, testCollar)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Interpolate(stations, depths, testCollar)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, a, b)
}

func TestInterpolateContinuousAcrossStations(t *testing.T) {
	stations := []Station{
		{Depth: 0, Dip: 85, Azimuth: 0},
		{Depth: 20, Dip: 70, Azimuth: 90},
		{Depth: 40, Dip: 60, Azimuth: 120},
	}
	got, err := Interpolate(stations, []float64{19.999999, 20, 20.000001}, testCollar)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	opt := cmpopts.EquateApprox(0, 1e-5)
	diff(t, got[0].X, got[1].X, opt)
	diff(t, got[1].X, got[2].X, opt)
	diff(t, got[0].Y, got[1].Y, opt)
	diff(t, got[1].Z, got[2].Z, opt)
}

func TestTrajectoryOffsetMatchesPoints(t *testing.T) {
	stations := []Station{
		{Depth: 0, Dip: 80, Azimuth: 350},
		{Depth: 25, Dip: 72, Azimuth: 10},
		{Depth: 50, Dip: 64, Azimuth: 25},
	}
	tr, err := NewTrajectory(stations)
	if err != nil {
		t.Fatalf("NewTrajectory: %v", err)
	}
	depths := mustDepths(t, 50, 2.5)
	points, err := tr.Points(depths, Collar{})
	if err != nil {
		t.Fatalf("Points: %v", err)
	}
	for i, d := range depths {
		e, n, tvd, err := tr.Offset(d)
		if err != nil {
			t.Fatalf("Offset(%v): %v", d, err)
		}
		diff(t, points[i], point(e, n, -tvd, d))
	}
}

// ---------------------------------------------------------------------------
// Failure semantics
// ---------------------------------------------------------------------------

func TestInterpolateErrors(t *testing.T) {
	twoStations := []Station{{Depth: 0, Dip: 90}, {Depth: 10, Dip: 80}}
	tests := []struct {
		name     string
		stations []Station
		depths   []float64
		want     error
	}{
		{"no stations", nil, []float64{0}, ErrInvalidArgument},
		{"unsorted stations", []Station{{Depth: 10}, {Depth: 0}}, []float64{0}, ErrInvalidArgument},
		{"duplicate station depth", []Station{{Depth: 0}, {Depth: 0, Dip: 10}}, []float64{0}, ErrInvalidArgument},
		{"negative station depth", []Station{{Depth: -1}}, []float64{0}, ErrInvalidArgument},
		{"nan dip", []Station{{Depth: 0, Dip: math.NaN()}}, []float64{0}, ErrInvalidArgument},
		{"direction reversal", []Station{{Depth: 0, Dip: 90}, {Depth: 10, Dip: -90}}, []float64{0}, ErrInvalidArgument},
		{"below last station", twoStations, []float64{0, 5, 11}, ErrOutOfRange},
		{"above first station", twoStations, []float64{-1, 0}, ErrOutOfRange},
		{"descending depths", twoStations, []float64{0, 5, 4}, ErrInvalidArgument},
		{"repeated depth", twoStations, []float64{0, 5, 5}, ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interpolate(tt.stations, tt.depths, testCollar)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Interpolate error = %v, want %v", err, tt.want)
			}
			if got != nil {
				t.Errorf("expected no points on error, got %d", len(got))
			}
		})
	}
}

func TestInterpolateOutOfRangeReportsDepth(t *testing.T) {
	stations := []Station{{Depth: 0, Dip: 90}, {Depth: 10, Dip: 85}}
	_, err := Interpolate(stations, []float64{0, 10, 11}, testCollar)
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if se.Value == nil || *se.Value != 11 {
		t.Errorf("Value = %v, want 11", se.Value)
	}
}
