package borehole

import (
	"context"
	"runtime"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// BatchOptions controls ComputeAll.
type BatchOptions struct {
	Workers int             // concurrent holes; <= 0 means runtime.NumCPU()
	Logger  log.FieldLogger // nil means the logrus standard logger
}

// ComputeAll computes the path of every hole in parallel. Holes share no
// state, so each runs on its own goroutine with at most Workers in flight.
// Paths are returned in input order. The first failing hole cancels the rest
// and its error, annotated with the hole id, is returned without any paths.
func ComputeAll(ctx context.Context, holes []Config, opts BatchOptions) ([]*Path, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	paths := make([]*Path, len(holes))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, cfg := range holes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entry := logger.WithField("hole_id", cfg.HoleID)
			for _, w := range Validate(cfg).Warnings {
				entry.Warn(w.Message)
			}
			p, err := Compute(cfg)
			if err != nil {
				entry.WithError(err).Warn("path computation failed")
				return err
			}
			entry.WithField("points", len(p.Points)).Debug("path computed")
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
