package survey

import (
	"errors"
	"fmt"
	"strconv"
)

// Error kinds. Match them with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidBoundary = errors.New("invalid boundary")
	ErrOutOfRange      = errors.New("depth out of survey range")
)

// Error describes an input problem that aborts a path computation.
type Error struct {
	Kind    error    // one of the Err* sentinels
	HoleID  string   // empty until attached by the caller
	Value   *float64 // offending depth or value, if any
	Message string
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.HoleID != "" {
		msg = "hole " + e.HoleID + ": " + msg
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Value != nil {
		msg += " (value " + strconv.FormatFloat(*e.Value, 'g', -1, 64) + ")"
	}
	return msg
}

// Unwrap exposes the kind so errors.Is(err, ErrOutOfRange) works.
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, v float64, format string, args ...any) *Error {
	return &Error{Kind: kind, Value: &v, Message: fmt.Sprintf(format, args...)}
}

// WithHole returns err annotated with a hole id. Errors that are not *Error
// are wrapped with the id as a prefix.
func WithHole(err error, holeID string) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		cp := *se
		cp.HoleID = holeID
		return &cp
	}
	return fmt.Errorf("hole %s: %w", holeID, err)
}
