package borehole

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/chazu/borepath/pkg/survey"
)

// ValidationSeverity indicates whether a validation finding blocks path
// computation or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks computation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	HoleID   string
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.HoleID == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] hole %s: %s", e.Severity, e.HoleID, e.Message)
}

// ValidationResult bundles blocking errors and advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Validate runs every structural and advisory check on cfg. It never mutates
// cfg. Compute performs its own checks; Validate exists so model builders can
// report every problem at once instead of the first one.
func Validate(cfg Config) ValidationResult {
	var findings []ValidationError
	findings = append(findings, validateIdentity(cfg)...)
	findings = append(findings, validateStations(cfg)...)
	findings = append(findings, validateBoundaries(cfg)...)
	findings = append(findings, validateOverlaps(cfg)...)
	findings = append(findings, validateRadii(cfg)...)

	var r ValidationResult
	for _, f := range findings {
		f.HoleID = cfg.HoleID
		if f.Severity == SeverityError {
			r.Errors = append(r.Errors, f)
		} else {
			r.Warnings = append(r.Warnings, f)
		}
	}
	return r
}

// ValidateCatalog validates every hole in catalog order.
func ValidateCatalog(c *Catalog) ValidationResult {
	var all ValidationResult
	for _, cfg := range c.Configs() {
		r := Validate(cfg)
		all.Errors = append(all.Errors, r.Errors...)
		all.Warnings = append(all.Warnings, r.Warnings...)
	}
	return all
}

func errorf(format string, args ...any) ValidationError {
	return ValidationError{Message: fmt.Sprintf(format, args...), Severity: SeverityError}
}

func warnf(format string, args ...any) ValidationError {
	return ValidationError{Message: fmt.Sprintf(format, args...), Severity: SeverityWarning}
}

func validateIdentity(cfg Config) []ValidationError {
	var errs []ValidationError
	if cfg.HoleID == "" {
		errs = append(errs, errorf("hole id is empty"))
	}
	if cfg.MaxDepth <= 0 {
		errs = append(errs, errorf("max depth is %.4f, must be positive", cfg.MaxDepth))
	}
	if cfg.Spacing < 0 {
		errs = append(errs, errorf("spacing is %.4f, must be positive", cfg.Spacing))
	}
	return errs
}

func validateStations(cfg Config) []ValidationError {
	st := cfg.Stations
	if len(st) == 0 {
		return []ValidationError{errorf("no survey stations")}
	}

	var errs []ValidationError
	for i, s := range st {
		if s.Depth < 0 {
			errs = append(errs, errorf("station %d has negative depth %.4f", i, s.Depth))
		}
		if i > 0 && s.Depth <= st[i-1].Depth {
			errs = append(errs, errorf("station %d at %.4f is not below station %d at %.4f", i, s.Depth, i-1, st[i-1].Depth))
		}
	}
	if st[0].Depth != 0 {
		errs = append(errs, warnf("first station is at %.4f, the collar is placed there", st[0].Depth))
	}
	if last := st[len(st)-1].Depth; len(st) > 1 && cfg.MaxDepth > last {
		errs = append(errs, errorf("max depth %.4f extends past the last station at %.4f; the path is not extrapolated", cfg.MaxDepth, last))
	}
	return errs
}

// validateBoundaries checks casings and intervals against the sampled range,
// which starts at the first station when there is one.
func validateBoundaries(cfg Config) []ValidationError {
	var errs []ValidationError
	top := 0.0
	if len(cfg.Stations) > 0 {
		top = max(top, cfg.Stations[0].Depth)
	}
	check := func(kind string, i int, from, to float64) {
		if from < top || to > cfg.MaxDepth {
			errs = append(errs, errorf("%s %d [%.4f, %.4f] lies outside [%.4f, %.4f]", kind, i, from, to, top, cfg.MaxDepth))
		}
		if from >= to {
			errs = append(errs, errorf("%s %d has from %.4f not less than to %.4f", kind, i, from, to))
		}
	}
	for i, c := range cfg.Casings {
		check("casing", i, c.From, c.To)
		if c.Radius <= 0 {
			errs = append(errs, errorf("casing %d radius is %.4f, must be positive", i, c.Radius))
		}
	}
	for i, iv := range cfg.Intervals {
		check("interval", i, iv.From, iv.To)
		if iv.Lithology == "" {
			errs = append(errs, warnf("interval %d has no lithology label", i))
		}
	}
	return errs
}

// validateOverlaps warns about casings or intervals sharing depth. Touching
// ranges are not overlaps.
func validateOverlaps(cfg Config) []ValidationError {
	var warnings []ValidationError
	overlaps := func(kind string, ranges [][2]float64) {
		slices.SortFunc(ranges, func(a, b [2]float64) int { return cmp.Compare(a[0], b[0]) })
		for i := 1; i < len(ranges); i++ {
			if ranges[i][0] < ranges[i-1][1] {
				warnings = append(warnings, warnf("%s [%.4f, %.4f] overlaps [%.4f, %.4f]",
					kind, ranges[i][0], ranges[i][1], ranges[i-1][0], ranges[i-1][1]))
			}
		}
	}
	overlaps("casing", boundaryRanges(cfg.Casings))
	overlaps("interval", boundaryRanges(cfg.Intervals))
	return warnings
}

func boundaryRanges[B survey.Boundary](bs []B) [][2]float64 {
	out := make([][2]float64, len(bs))
	for i, b := range bs {
		out[i][0], out[i][1] = b.Range()
	}
	return out
}

func validateRadii(cfg Config) []ValidationError {
	var warnings []ValidationError
	if cfg.DrillingRadius <= 0 {
		warnings = append(warnings, warnf("drilling radius is %.4f", cfg.DrillingRadius))
	}
	for i, c := range cfg.Casings {
		if c.Radius > 0 && cfg.DrillingRadius > 0 && c.Radius <= cfg.DrillingRadius {
			warnings = append(warnings, warnf("casing %d radius %.4f does not exceed drilling radius %.4f", i, c.Radius, cfg.DrillingRadius))
		}
	}
	return warnings
}
