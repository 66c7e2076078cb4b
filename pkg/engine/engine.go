// Package engine provides the Lisp model builder for borepath.
// It wraps zygomys in a sandboxed environment and produces a borehole
// Catalog from user source code.
package engine

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/borepath/pkg/borehole"
	zygo "github.com/glycerine/zygomys/zygo"
	log "github.com/sirupsen/logrus"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning is an advisory finding about a hole defined by the source.
type EvalWarning struct {
	HoleID  string
	Message string
}

// EvalResult bundles the full output of an evaluation.
type EvalResult struct {
	Catalog  *borehole.Catalog
	Errors   []EvalError
	Warnings []EvalWarning
}

// Engine wraps the zygomys interpreter for borehole model evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
	logger     log.FieldLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the hard limit for a single evaluation.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger used for fatal evaluation failures.
func WithLogger(l log.FieldLogger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: EvalTimeout, logger: log.StandardLogger()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Evaluate takes Lisp source code and produces a new Catalog.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns catalog + nil errors + nil error
//   - On parse/eval failure: returns nil catalog + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*borehole.Catalog, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		c, evalErrs, err := e.evaluate(source)
		ch <- evalResult{catalog: c, errors: evalErrs, err: err}
	}()

	c, evalErrs, err := e.await(ch, gen)
	entry := e.logger.WithField("generation", gen)
	switch {
	case err != nil:
		entry.WithError(err).Error("evaluation failed")
	case len(evalErrs) > 0:
		entry.WithField("errors", len(evalErrs)).Debug("evaluation reported errors")
	default:
		entry.WithField("holes", c.Len()).Debug("evaluation complete")
	}
	return c, evalErrs, err
}

// EvaluateResult evaluates source and validates every hole it defines.
// Validation errors are reported as eval errors and drop the catalog;
// validation warnings are passed through.
func (e *Engine) EvaluateResult(source string) EvalResult {
	c, evalErrs, err := e.Evaluate(source)
	if err != nil {
		return EvalResult{Errors: []EvalError{{Message: err.Error()}}}
	}
	if len(evalErrs) > 0 {
		return EvalResult{Errors: evalErrs}
	}

	res := EvalResult{Catalog: c}
	v := borehole.ValidateCatalog(c)
	for _, w := range v.Warnings {
		res.Warnings = append(res.Warnings, EvalWarning{HoleID: w.HoleID, Message: w.Message})
	}
	if !v.OK() {
		for _, ve := range v.Errors {
			res.Errors = append(res.Errors, EvalError{Message: ve.Error()})
		}
		res.Catalog = nil
	}
	return res
}

// EvaluateFile reads a Lisp model file and evaluates it.
func (e *Engine) EvaluateFile(path string) (*borehole.Catalog, []EvalError, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("engine: %w", err)
	}
	return e.Evaluate(string(src))
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*borehole.Catalog, []EvalError, error) {
	// Empty source is a valid program that produces an empty catalog.
	if strings.TrimSpace(source) == "" {
		return borehole.NewCatalog(), nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	c := borehole.NewCatalog()
	registerBuiltins(env, c)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return c, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
