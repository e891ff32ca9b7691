// Package trace defines the drawing trace: the flat, ordered list of draw
// operations the interpreter produces and the backends consume.
//
// The set of operations is closed. Backends implement Visitor, which has one
// method per operation, so a backend that forgets an operation does not
// compile.
package trace

import (
	"encoding/json"

	"github.com/dbnlang/dbn/core/diag"
)

// Op is one draw operation. All arguments are numeric value text.
type Op interface {
	// Accept calls the Visitor method for the concrete operation.
	Accept(v Visitor) error
	// Name is the lower-case operation name: background, foreground, line, point.
	Name() string
	// Args returns the arguments in declaration order.
	Args() []string
	// Location is where the statement that produced the operation starts.
	Location() diag.Location

	sealed()
}

// Visitor handles each kind of operation.
type Visitor interface {
	VisitBackground(Background) error
	VisitForeground(Foreground) error
	VisitLine(Line) error
	VisitPoint(Point) error
}

// At records the source position of an operation.
type At struct {
	Loc diag.Location
}

// Location returns the recorded position.
func (a At) Location() diag.Location { return a.Loc }

func (At) sealed() {}

// Background fills the canvas (Paper).
type Background struct {
	At
	Colour string
}

func (o Background) Accept(v Visitor) error { return v.VisitBackground(o) }
func (Background) Name() string             { return "background" }
func (o Background) Args() []string         { return []string{o.Colour} }

// Foreground sets the pen colour (Pen).
type Foreground struct {
	At
	Colour string
}

func (o Foreground) Accept(v Visitor) error { return v.VisitForeground(o) }
func (Foreground) Name() string             { return "foreground" }
func (o Foreground) Args() []string         { return []string{o.Colour} }

// Line draws from (X0, Y0) to (X1, Y1) with the pen colour.
type Line struct {
	At
	X0, Y0, X1, Y1 string
}

func (o Line) Accept(v Visitor) error { return v.VisitLine(o) }
func (Line) Name() string             { return "line" }
func (o Line) Args() []string         { return []string{o.X0, o.Y0, o.X1, o.Y1} }

// Point sets a single dot to Colour (Set [x y] colour).
type Point struct {
	At
	X, Y, Colour string
}

func (o Point) Accept(v Visitor) error { return v.VisitPoint(o) }
func (Point) Name() string             { return "point" }
func (o Point) Args() []string         { return []string{o.X, o.Y, o.Colour} }

// Trace is the ordered list of operations; order is paint order.
type Trace []Op

// Walk visits every operation in order and stops at the first error.
func Walk(t Trace, v Visitor) error {
	for _, op := range t {
		if err := op.Accept(v); err != nil {
			return err
		}
	}
	return nil
}

// jsonOp is the dump shape of an operation.
type jsonOp struct {
	Name      string   `json:"name"`
	Arguments []string `json:"arguments"`
	Line      int      `json:"line,omitempty"`
	Column    int      `json:"column"`
}

// MarshalJSON writes the trace as {"type":"drawing","body":[...]}.
func (t Trace) MarshalJSON() ([]byte, error) {
	body := make([]jsonOp, 0, len(t))
	for _, op := range t {
		loc := op.Location()
		body = append(body, jsonOp{
			Name:      op.Name(),
			Arguments: op.Args(),
			Line:      loc.Line,
			Column:    loc.Column,
		})
	}
	return json.Marshal(struct {
		Type string   `json:"type"`
		Body []jsonOp `json:"body"`
	}{Type: "drawing", Body: body})
}
