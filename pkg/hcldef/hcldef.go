// Package hcldef loads borehole definitions from HCL files.
//
// A file holds any number of borehole blocks:
//
//	borehole "BH-001" {
//	  max_depth       = 10
//	  drilling_radius = 0.1
//	  spacing         = 1 # optional, defaults to borehole.DefaultSpacing
//
//	  collar {
//	    easting   = 500
//	    northing  = 1000
//	    elevation = 200
//	  }
//
//	  station {
//	    depth   = 0
//	    dip     = 0
//	    azimuth = 0
//	  }
//
//	  casing {
//	    from   = 2.5
//	    to     = 10
//	    radius = 0.2
//	  }
//
//	  interval {
//	    from      = 0
//	    to        = 4
//	    lithology = "sand"
//	  }
//	}
//
// Blocks are decoded as written; structural checks are left to
// borehole.Validate and borehole.Compute.
package hcldef

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/chazu/borepath/pkg/borehole"
	"github.com/chazu/borepath/pkg/survey"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	log "github.com/sirupsen/logrus"
)

// Extension is the file extension DecodeDir looks for.
const Extension = ".hcl"

type hclFile struct {
	Boreholes []*hclBorehole `hcl:"borehole,block"`
}

type hclBorehole struct {
	ID             string        `hcl:"id,label"`
	MaxDepth       float64       `hcl:"max_depth"`
	DrillingRadius float64       `hcl:"drilling_radius,optional"`
	Spacing        float64       `hcl:"spacing,optional"`
	Collar         *hclCollar    `hcl:"collar,block"`
	Stations       []hclStation  `hcl:"station,block"`
	Casings        []hclCasing   `hcl:"casing,block"`
	Intervals      []hclInterval `hcl:"interval,block"`
}

type hclCollar struct {
	Easting   float64 `hcl:"easting"`
	Northing  float64 `hcl:"northing"`
	Elevation float64 `hcl:"elevation"`
}

type hclStation struct {
	Depth   float64 `hcl:"depth"`
	Dip     float64 `hcl:"dip"`
	Azimuth float64 `hcl:"azimuth"`
}

type hclCasing struct {
	From   float64 `hcl:"from"`
	To     float64 `hcl:"to"`
	Radius float64 `hcl:"radius"`
}

type hclInterval struct {
	From      float64 `hcl:"from"`
	To        float64 `hcl:"to"`
	Lithology string  `hcl:"lithology"`
}

func (b *hclBorehole) config() borehole.Config {
	cfg := borehole.Config{
		HoleID:         b.ID,
		MaxDepth:       b.MaxDepth,
		DrillingRadius: b.DrillingRadius,
		Spacing:        b.Spacing,
	}
	if b.Collar != nil {
		cfg.Collar = survey.Collar{Easting: b.Collar.Easting, Northing: b.Collar.Northing, Elevation: b.Collar.Elevation}
	}
	for _, s := range b.Stations {
		cfg.Stations = append(cfg.Stations, survey.Station{Depth: s.Depth, Dip: s.Dip, Azimuth: s.Azimuth})
	}
	for _, c := range b.Casings {
		cfg.Casings = append(cfg.Casings, survey.Casing{From: c.From, To: c.To, Radius: c.Radius})
	}
	for _, iv := range b.Intervals {
		cfg.Intervals = append(cfg.Intervals, survey.Interval{From: iv.From, To: iv.To, Lithology: iv.Lithology})
	}
	return cfg
}

// Decode parses src as an HCL borehole file. filename is only used in
// diagnostics.
func Decode(filename string, src []byte) (*borehole.Catalog, error) {
	if src == nil {
		src = []byte{}
	}
	c := borehole.NewCatalog()
	if err := decodeInto(c, hclparse.NewParser(), filename, src); err != nil {
		return nil, err
	}
	return c, nil
}

// DecodeFile parses a single HCL borehole file.
func DecodeFile(ctx context.Context, path string) (*borehole.Catalog, error) {
	log.WithContext(ctx).WithField("path", path).Debug("loading borehole file")

	c := borehole.NewCatalog()
	if err := decodeInto(c, hclparse.NewParser(), path, nil); err != nil {
		return nil, err
	}
	return c, nil
}

// DecodeDir parses every .hcl file under dir, in lexical path order, into a
// single catalog. Hole ids must be unique across files.
func DecodeDir(ctx context.Context, dir string) (*borehole.Catalog, error) {
	logger := log.WithContext(ctx).WithField("path", dir)
	logger.Debug("loading borehole files")

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == Extension {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("hcldef: failed to find borehole files in %s: %w", dir, err)
	}
	sort.Strings(files)

	c := borehole.NewCatalog()
	if len(files) == 0 {
		logger.Warn("no borehole files found, returning empty catalog")
		return c, nil
	}

	parser := hclparse.NewParser()
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := decodeInto(c, parser, f, nil); err != nil {
			return nil, err
		}
	}
	logger.WithField("holes", c.Len()).Debug("borehole files loaded")
	return c, nil
}

// decodeInto parses one file and adds its holes to c. A nil src reads the
// file from disk.
func decodeInto(c *borehole.Catalog, parser *hclparse.Parser, filename string, src []byte) error {
	var (
		f     *hcl.File
		diags hcl.Diagnostics
	)
	if src == nil {
		f, diags = parser.ParseHCLFile(filename)
	} else {
		f, diags = parser.ParseHCL(src, filename)
	}
	if diags.HasErrors() {
		return fmt.Errorf("hcldef: failed to parse %s: %w", filename, diags)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(f.Body, nil, &parsed); diags.HasErrors() {
		return fmt.Errorf("hcldef: failed to decode %s: %w", filename, diags)
	}

	for _, b := range parsed.Boreholes {
		if err := c.Add(b.config()); err != nil {
			return fmt.Errorf("hcldef: %s: %w", filename, err)
		}
	}
	return nil
}
