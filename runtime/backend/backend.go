// Package backend defines the contract between the interpreter and the
// renderers that turn a drawing trace into output text.
package backend

import (
	"errors"

	"github.com/dbnlang/dbn/core/diag"
	"github.com/dbnlang/dbn/core/numeric"
	"github.com/dbnlang/dbn/runtime/trace"
)

// Backend renders a trace in two steps: Transform builds the backend's own
// intermediate tree T, Generate serializes it.
type Backend[T any] interface {
	Transform(t trace.Trace) (T, error)
	Generate(tree T) (string, error)
}

// Canvas is the logical size of the drawing area in both directions.
// Coordinates run from 0 to Canvas inclusive.
const Canvas = 100

// DefaultPen is the pen colour before any Foreground op.
const DefaultPen = 100

// Int reads a numeric argument of op. Values that do not fit an int are
// reported at the statement that produced op.
func Int(op trace.Op, value string) (int, error) {
	n, err := numeric.Parse(value)
	if errors.Is(err, numeric.ErrSyntax) {
		return 0, diag.NewInternal(op.Location(), "Ill formed %s operation: %q is not a number.", op.Name(), value)
	}
	if err != nil || n != int64(int(n)) {
		return 0, OutOfRange(op, value)
	}
	return int(n), nil
}

// OutOfRange is the error for a value of op that a backend cannot place.
func OutOfRange(op trace.Op, value string) error {
	return diag.NewInput(op.Location(), "Number %q is out of range for %s.", value, op.Name())
}

// FlipY converts from the language's bottom-up y axis to a top-down canvas.
func FlipY(op trace.Op, y int) (int, error) {
	return invert(op, Canvas, y)
}

// Lightness maps a grey level (0 white, 100 black) to a lightness percentage.
func Lightness(op trace.Op, level int) (int, error) {
	return invert(op, 100, level)
}

// invert returns top - v, reporting v when the result does not fit an int.
func invert(op trace.Op, top, v int) (int, error) {
	r, err := numeric.Sub(int64(top), int64(v))
	if err != nil || r != int64(int(r)) {
		return 0, OutOfRange(op, numeric.Format(int64(v)))
	}
	return int(r), nil
}
