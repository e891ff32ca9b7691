// Package numeric implements DBN number values.
//
// A value is its decimal text, optionally prefixed with "-". Text is kept as
// written until arithmetic needs it, so "05" stays "05" unless it is combined
// with another value.
package numeric

import (
	"errors"
	"math"
	"math/bits"
	"strconv"
)

var (
	// ErrSyntax is returned for text that is not a signed decimal integer.
	ErrSyntax = errors.New("not a number")
	// ErrRange is returned for values and results that do not fit in an int64.
	ErrRange = errors.New("number out of range")
	// ErrDivideByZero is returned by Div when the divisor is zero.
	ErrDivideByZero = errors.New("division by zero")
)

// Parse converts value text to an int64.
func Parse(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, ErrRange
		}
		return 0, ErrSyntax
	}
	return n, nil
}

// Format converts n back to value text.
func Format(n int64) string {
	return strconv.FormatInt(n, 10)
}

// Negate toggles the sign of value text without parsing it: a leading "-" is
// removed, otherwise one is added.
func Negate(s string) string {
	if len(s) > 0 && s[0] == '-' {
		return s[1:]
	}
	return "-" + s
}

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(a, b int64) (int64, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	if a == math.MinInt64 && b == -1 {
		return 0, ErrRange
	}
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q, nil
}

// Add returns a + b, or ErrRange on overflow.
func Add(a, b int64) (int64, error) {
	r := a + b
	if (r > a) != (b > 0) {
		return 0, ErrRange
	}
	return r, nil
}

// Sub returns a - b, or ErrRange on overflow.
func Sub(a, b int64) (int64, error) {
	r := a - b
	if (r < a) != (b > 0) {
		return 0, ErrRange
	}
	return r, nil
}

// Mul returns a * b, or ErrRange on overflow.
func Mul(a, b int64) (int64, error) {
	hi, lo := bits.Mul64(magnitude(a), magnitude(b))
	if hi != 0 {
		return 0, ErrRange
	}
	if (a < 0) != (b < 0) {
		if lo > 1<<63 {
			return 0, ErrRange
		}
		return int64(-lo), nil
	}
	if lo >= 1<<63 {
		return 0, ErrRange
	}
	return int64(lo), nil
}

func magnitude(n int64) uint64 {
	if n < 0 {
		return -uint64(n)
	}
	return uint64(n)
}

// Apply evaluates "a op b" for the four calculation operators. ok is false
// when op is not one of + - * /.
func Apply(op string, a, b int64) (result int64, ok bool, err error) {
	switch op {
	case "+":
		result, err = Add(a, b)
	case "-":
		result, err = Sub(a, b)
	case "*":
		result, err = Mul(a, b)
	case "/":
		result, err = FloorDiv(a, b)
	default:
		return 0, false, nil
	}
	return result, true, err
}
