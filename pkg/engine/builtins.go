package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/borepath/pkg/borehole"
	"github.com/chazu/borepath/pkg/survey"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites model source before it reaches zygomys:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords never
//     collide with user variables.
//  2. Kebab-case identifiers become snake_case (max-depth -> max_depth);
//     zygomys reads a hyphen as the subtraction operator.
//  3. ; line comments become // comments.
//
// String literals are copied through untouched.
func preprocessSource(source string) string {
	out := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		switch c := b[i]; {
		case c == '"':
			j := i + 1
			for j < len(b) && b[j] != '"' {
				if b[j] == '\\' && j+1 < len(b) {
					j++
				}
				j++
			}
			if j < len(b) {
				j++
			}
			out = append(out, b[i:j]...)
			i = j

		case c == '`':
			j := i + 1
			for j < len(b) && b[j] != '`' {
				j++
			}
			if j < len(b) {
				j++
			}
			out = append(out, b[i:j]...)
			i = j

		case c == ';':
			out = append(out, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++

		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

type sexpCollar struct{ c survey.Collar }

func (s *sexpCollar) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(collar %g %g %g)", s.c.Easting, s.c.Northing, s.c.Elevation)
}
func (s *sexpCollar) Type() *zygo.RegisteredType { return nil }

type sexpStation struct{ st survey.Station }

func (s *sexpStation) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(station %g %g %g)", s.st.Depth, s.st.Dip, s.st.Azimuth)
}
func (s *sexpStation) Type() *zygo.RegisteredType { return nil }

type sexpCasing struct{ c survey.Casing }

func (s *sexpCasing) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(casing %g %g %g)", s.c.From, s.c.To, s.c.Radius)
}
func (s *sexpCasing) Type() *zygo.RegisteredType { return nil }

type sexpInterval struct{ iv survey.Interval }

func (s *sexpInterval) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(interval %g %g %q)", s.iv.From, s.iv.To, s.iv.Lithology)
}
func (s *sexpInterval) Type() *zygo.RegisteredType { return nil }

// sexpHoleRef is what `borehole` returns; it names a catalog entry.
type sexpHoleRef struct{ id string }

func (s *sexpHoleRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(borehole %q)", s.id)
}
func (s *sexpHoleRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// positionalFloats reads exactly n numeric arguments.
func positionalFloats(form string, args []zygo.Sexp, names ...string) ([]float64, error) {
	if len(args) != len(names) {
		return nil, fmt.Errorf("%s requires %d arguments (%s), got %d",
			form, len(names), strings.Join(names, " "), len(args))
	}
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", form, names[i], err)
		}
		out[i] = f
	}
	return out, nil
}

// collect converts a list argument whose items are all of type T.
func collect[T any, S zygo.Sexp](form, key string, v zygo.Sexp, unwrap func(S) T) ([]T, error) {
	items, err := sexpListToSlice(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", form, key, err)
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		s, ok := item.(S)
		if !ok {
			return nil, fmt.Errorf("%s: %s entry %d: unexpected %T (%s)", form, key, i, item, item.SexpString(nil))
		}
		out = append(out, unwrap(s))
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the borehole model builtins into a zygomys
// environment. Every `borehole` form adds one entry to c.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, c *borehole.Catalog) {

	// (collar 500 1000 200)
	env.AddFunction("collar", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := positionalFloats("collar", args, "easting", "northing", "elevation")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpCollar{c: survey.Collar{Easting: v[0], Northing: v[1], Elevation: v[2]}}, nil
	})

	// (station 10 45 90)
	env.AddFunction("station", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := positionalFloats("station", args, "depth", "dip", "azimuth")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpStation{st: survey.Station{Depth: v[0], Dip: v[1], Azimuth: v[2]}}, nil
	})

	// (casing 2.5 10 0.2)
	env.AddFunction("casing", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := positionalFloats("casing", args, "from", "to", "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpCasing{c: survey.Casing{From: v[0], To: v[1], Radius: v[2]}}, nil
	})

	// (interval 0 4 "sand")
	env.AddFunction("interval", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("interval requires 3 arguments (from to lithology), got %d", len(args))
		}
		v, err := positionalFloats("interval", args[:2], "from", "to")
		if err != nil {
			return zygo.SexpNull, err
		}
		lith, err := toString(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("interval: lithology: %w", err)
		}
		return &sexpInterval{iv: survey.Interval{From: v[0], To: v[1], Lithology: lith}}, nil
	})

	// -----------------------------------------------------------------------
	// (borehole "BH-001" :collar (collar 0 0 100) :max-depth 50 :radius 0.1
	//           :spacing 1 :stations (list ...) :casings (list ...)
	//           :intervals (list ...))
	// -----------------------------------------------------------------------
	env.AddFunction("borehole", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("borehole requires a hole id as first argument")
		}
		id, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("borehole: id: %w", err)
		}
		cfg := borehole.Config{HoleID: id}

		if v, ok := pa.kw["collar"]; ok {
			col, ok := v.(*sexpCollar)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("borehole %s: collar: expected (collar e n z), got %T", id, v)
			}
			cfg.Collar = col.c
		}
		for key, dst := range map[string]*float64{
			"max-depth": &cfg.MaxDepth,
			"radius":    &cfg.DrillingRadius,
			"spacing":   &cfg.Spacing,
		} {
			v, ok := pa.kw[key]
			if !ok {
				continue
			}
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("borehole %s: %s: %w", id, key, err)
			}
			*dst = f
		}
		if v, ok := pa.kw["stations"]; ok {
			cfg.Stations, err = collect("borehole "+id, "stations", v, func(s *sexpStation) survey.Station { return s.st })
			if err != nil {
				return zygo.SexpNull, err
			}
		}
		if v, ok := pa.kw["casings"]; ok {
			cfg.Casings, err = collect("borehole "+id, "casings", v, func(s *sexpCasing) survey.Casing { return s.c })
			if err != nil {
				return zygo.SexpNull, err
			}
		}
		if v, ok := pa.kw["intervals"]; ok {
			cfg.Intervals, err = collect("borehole "+id, "intervals", v, func(s *sexpInterval) survey.Interval { return s.iv })
			if err != nil {
				return zygo.SexpNull, err
			}
		}

		if err := c.Add(cfg); err != nil {
			return zygo.SexpNull, fmt.Errorf("borehole: %w", err)
		}
		return &sexpHoleRef{id: id}, nil
	})
}
