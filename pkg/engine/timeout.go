package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/borepath/pkg/borehole"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// Fatal evaluation outcomes.
var (
	ErrEvalTimeout    = errors.New("evaluation timed out")
	ErrEvalSuperseded = errors.New("evaluation superseded by newer request")
)

type evalResult struct {
	catalog *borehole.Catalog
	errors  []EvalError
	err     error
}

// await blocks until the evaluation started as generation gen reports on ch.
//
// A catalog describes the model source as it was when evaluation began. Once
// a newer Evaluate call has started, an older catalog may name holes the user
// has since renamed or removed, so it is dropped with ErrEvalSuperseded rather
// than handed to a batch. A runaway evaluation is abandoned after e.timeout;
// its sandbox keeps running until it finishes, and whatever it later sends to
// the buffered channel is never read.
func (e *Engine) await(ch <-chan evalResult, gen uint64) (*borehole.Catalog, []EvalError, error) {
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		e.mu.Lock()
		latest := e.generation
		e.mu.Unlock()
		if gen != latest {
			return nil, nil, ErrEvalSuperseded
		}
		return res.catalog, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrEvalTimeout, e.timeout)
	}
}
