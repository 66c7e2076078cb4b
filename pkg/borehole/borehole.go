// Package borehole ties a borehole's survey, collar and boundary intervals to
// the path derived from them.
//
// A Config is an immutable description of one hole and Compute is a pure
// function of it. Borehole wraps a Config that can change over time and caches
// the computed Path against a version counter, so a path is never returned
// for data it was not computed from.
package borehole

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/chazu/borepath/pkg/survey"
)

// DefaultSpacing is the sampling interval used when a Config leaves it unset.
const DefaultSpacing = 1.0

// ErrSuperseded is returned by ComputePath when the borehole changed while its
// path was being computed.
var ErrSuperseded = errors.New("borehole: computation superseded by a newer change")

// Config fully describes one borehole.
type Config struct {
	HoleID         string            `json:"hole_id"`
	Collar         survey.Collar     `json:"collar"`
	MaxDepth       float64           `json:"max_depth"`
	DrillingRadius float64           `json:"drilling_radius"`
	Spacing        float64           `json:"spacing,omitempty"` // 0 = DefaultSpacing
	Stations       []survey.Station  `json:"stations"`
	Casings        []survey.Casing   `json:"casings,omitempty"`
	Intervals      []survey.Interval `json:"intervals,omitempty"`
}

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	c.Stations = slices.Clone(c.Stations)
	c.Casings = slices.Clone(c.Casings)
	c.Intervals = slices.Clone(c.Intervals)
	return c
}

func (c Config) spacing() float64 {
	if c.Spacing == 0 {
		return DefaultSpacing
	}
	return c.Spacing
}

// Compute samples the depth grid of cfg and evaluates the path at every depth.
// The grid starts at the first station, where the collar sits. Errors carry
// the hole id; there is no partial result.
func Compute(cfg Config) (*Path, error) {
	if len(cfg.Stations) == 0 {
		return nil, survey.WithHole(&survey.Error{
			Kind:    survey.ErrInvalidArgument,
			Message: "at least one survey station is required",
		}, cfg.HoleID)
	}

	// Boundaries are checked here, before any interpolation.
	depths, err := survey.SampleDepthsFrom(cfg.Stations[0].Depth, cfg.MaxDepth, cfg.spacing(), cfg.Casings, cfg.Intervals)
	if err != nil {
		return nil, survey.WithHole(err, cfg.HoleID)
	}
	points, err := survey.Interpolate(cfg.Stations, depths, cfg.Collar)
	if err != nil {
		return nil, survey.WithHole(err, cfg.HoleID)
	}

	return &Path{
		HoleID:    cfg.HoleID,
		Depths:    depths,
		Points:    points,
		casings:   slices.Clone(cfg.Casings),
		intervals: slices.Clone(cfg.Intervals),
	}, nil
}

// ---------------------------------------------------------------------------
// Derived-state holder
// ---------------------------------------------------------------------------

// State is the lifecycle of a Borehole's derived path.
type State int

const (
	StateUnset     State = iota // no path, or data changed since the last compute
	StateComputing              // depths are being sampled and interpolated
	StateComputed               // path available for the current version
)

func (s State) String() string {
	switch s {
	case StateUnset:
		return "unset"
	case StateComputing:
		return "computing"
	case StateComputed:
		return "computed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Borehole holds a mutable Config together with its cached Path. Every setter
// bumps the version and drops the cached path; ComputePath only installs a
// result whose version still matches. It is safe for concurrent use.
type Borehole struct {
	mu       sync.Mutex
	cfg      Config
	version  uint64
	state    State
	path     *Path
	inFlight int // ComputePath calls running against the current version
}

// computeFn is the computation ComputePath runs; tests replace it to control
// interleaving.
var computeFn = Compute

// New returns a Borehole holding a copy of cfg.
func New(cfg Config) *Borehole {
	return &Borehole{cfg: cfg.Clone(), version: 1}
}

// Config returns a copy of the current configuration.
func (b *Borehole) Config() Config {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg.Clone()
}

// Version returns the current data version.
func (b *Borehole) Version() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

// State returns the current lifecycle state of the derived path.
func (b *Borehole) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Path returns the cached path if it was computed from the current data.
func (b *Borehole) Path() (*Path, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateComputed || b.path == nil || b.path.Version != b.version {
		return nil, false
	}
	return b.path, true
}

// update applies fn to the config and invalidates the derived path.
func (b *Borehole) update(fn func(*Config)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.cfg)
	b.version++
	b.state = StateUnset
	b.path = nil
	b.inFlight = 0
}

// SetStations replaces the survey stations.
func (b *Borehole) SetStations(stations []survey.Station) {
	b.update(func(c *Config) { c.Stations = slices.Clone(stations) })
}

// SetCasings replaces the casings.
func (b *Borehole) SetCasings(casings []survey.Casing) {
	b.update(func(c *Config) { c.Casings = slices.Clone(casings) })
}

// SetIntervals replaces the lithology intervals.
func (b *Borehole) SetIntervals(intervals []survey.Interval) {
	b.update(func(c *Config) { c.Intervals = slices.Clone(intervals) })
}

// SetCollar moves the collar.
func (b *Borehole) SetCollar(collar survey.Collar) {
	b.update(func(c *Config) { c.Collar = collar })
}

// SetMaxDepth changes the maximum depth.
func (b *Borehole) SetMaxDepth(d float64) {
	b.update(func(c *Config) { c.MaxDepth = d })
}

// SetSpacing changes the sampling interval.
func (b *Borehole) SetSpacing(s float64) {
	b.update(func(c *Config) { c.Spacing = s })
}

// ComputePath recomputes the path from the current data and caches it. If the
// data changed before the computation finished, the result is discarded and
// ErrSuperseded is returned. The state stays Computing while any call for the
// current version is still running; a failed call leaves a path installed by
// a concurrent successful one in place.
func (b *Borehole) ComputePath() (*Path, error) {
	b.mu.Lock()
	cfg := b.cfg.Clone()
	gen := b.version
	b.inFlight++
	b.state = StateComputing
	b.mu.Unlock()

	p, err := computeFn(cfg)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.version {
		return nil, ErrSuperseded
	}
	b.inFlight--
	if err != nil {
		switch {
		case b.inFlight > 0:
			b.state = StateComputing
		case b.path != nil:
			b.state = StateComputed
		default:
			b.state = StateUnset
		}
		return nil, err
	}
	p.Version = gen
	b.path = p
	b.state = StateComputed
	return p, nil
}
