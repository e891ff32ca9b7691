// Package raster renders a drawing trace onto a 101x101 pixel grid and
// encodes the grid as text.
//
// Unlike the vector backend, pixels outside the canvas are dropped.
package raster

import (
	"strings"

	"github.com/dbnlang/dbn/core/diag"
	"github.com/dbnlang/dbn/core/invariant"
	"github.com/dbnlang/dbn/runtime/backend"
	"github.com/dbnlang/dbn/runtime/trace"
)

// Size is the number of pixels along each side of the grid.
const Size = backend.Canvas + 1

// MaxCoord bounds the magnitude of line endpoints, keeping the line
// arithmetic inside int64.
const MaxCoord = 1 << 28

// Encoding names a text encoding of the grid.
type Encoding string

const (
	// EncodingTest writes every pixel's colour in a 3-wide column.
	EncodingTest Encoding = "test"
	// EncodingBinary writes "o" for dark pixels and a space for light ones.
	EncodingBinary Encoding = "binary"
)

// Encodings lists the supported encodings.
var Encodings = []Encoding{EncodingTest, EncodingBinary}

// Pixel is the colour written to a grid cell. The zero Pixel marks a cell
// nothing has been drawn on; it shows the background colour.
type Pixel struct {
	Colour string // value text as it appeared in the trace
	Level  int
}

func (p Pixel) drawn() bool {
	return p.Colour != ""
}

// Grid is the raster intermediate tree. Rows run top to bottom.
type Grid struct {
	Pixels     [Size][Size]Pixel
	Background Pixel
}

// At returns the colour shown at column x, row y, falling back to the
// background for cells nothing was drawn on.
func (g *Grid) At(x, y int) Pixel {
	invariant.InRange(x, 0, Size-1, "x")
	invariant.InRange(y, 0, Size-1, "y")
	if p := g.Pixels[y][x]; p.drawn() {
		return p
	}
	return g.Background
}

func (g *Grid) set(x, y int, p Pixel) {
	if 0 <= x && x < Size && 0 <= y && y < Size {
		g.Pixels[y][x] = p
	}
}

// Backend is the raster renderer for one encoding.
type Backend struct {
	encoding Encoding
}

var _ backend.Backend[*Grid] = (*Backend)(nil)

// New returns a raster backend producing the named encoding. An unknown
// name is an internal error: callers only pass names from Encodings.
func New(encoding Encoding) (*Backend, error) {
	for _, e := range Encodings {
		if e == encoding {
			return &Backend{encoding: encoding}, nil
		}
	}
	return nil, unknownEncoding(encoding)
}

func unknownEncoding(e Encoding) error {
	return diag.NewInternal(diag.Location{}, "Unknown raster type %q.", string(e))
}

// Transform draws t onto a fresh grid with a "0" background.
func (b *Backend) Transform(t trace.Trace) (*Grid, error) {
	g := &Grid{Background: Pixel{Colour: "0"}}
	r := &rasterizer{grid: g, pen: Pixel{Colour: "100", Level: backend.DefaultPen}}
	if err := trace.Walk(t, r); err != nil {
		return nil, err
	}
	return g, nil
}

// Generate encodes the grid, one text line per row.
func (b *Backend) Generate(g *Grid) (string, error) {
	var cell func(p Pixel) string
	switch b.encoding {
	case EncodingTest:
		cell = func(p Pixel) string {
			s := p.Colour
			if len(s) < 3 {
				s += strings.Repeat(" ", 3-len(s))
			}
			return s + " "
		}
	case EncodingBinary:
		cell = func(p Pixel) string {
			if p.Level < 50 {
				return " "
			}
			return "o"
		}
	default:
		return "", unknownEncoding(b.encoding)
	}

	var sb strings.Builder
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			sb.WriteString(cell(g.At(x, y)))
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// rasterizer walks a trace and writes pixels.
type rasterizer struct {
	grid *Grid
	pen  Pixel
}

func pixel(op trace.Op, colour string) (Pixel, error) {
	n, err := backend.Int(op, colour)
	if err != nil {
		return Pixel{}, err
	}
	return Pixel{Colour: colour, Level: n}, nil
}

func (r *rasterizer) VisitBackground(op trace.Background) error {
	p, err := pixel(op, op.Colour)
	if err != nil {
		return err
	}
	r.grid.Background = p
	return nil
}

func (r *rasterizer) VisitForeground(op trace.Foreground) error {
	p, err := pixel(op, op.Colour)
	if err != nil {
		return err
	}
	r.pen = p
	return nil
}

func (r *rasterizer) VisitPoint(op trace.Point) error {
	x, err := backend.Int(op, op.X)
	if err != nil {
		return err
	}
	y, err := backend.Int(op, op.Y)
	if err != nil {
		return err
	}
	p, err := pixel(op, op.Colour)
	if err != nil {
		return err
	}
	if y, err = backend.FlipY(op, y); err != nil {
		return err
	}
	r.grid.set(x, y, p)
	return nil
}

// VisitLine draws the pixels Bresenham's algorithm visits between the
// flipped endpoints.
func (r *rasterizer) VisitLine(op trace.Line) error {
	var v [4]int64
	for i, s := range []string{op.X0, op.Y0, op.X1, op.Y1} {
		n, err := backend.Int(op, s)
		if err != nil {
			return err
		}
		if n < -MaxCoord || n > MaxCoord {
			return backend.OutOfRange(op, s)
		}
		if i%2 == 1 {
			if n, err = backend.FlipY(op, n); err != nil {
				return err
			}
		}
		v[i] = int64(n)
	}
	r.line(v[0], v[1], v[2], v[3])
	return nil
}

// line plots from (x0, y0) to (x1, y1). Bresenham advances the major axis by
// one on every step and the minor offset after k steps has a closed form, so
// only the steps that land on the grid are visited.
func (r *rasterizer) line(x0, y0, x1, y1 int64) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := step(x0, x1), step(y0, y1)

	if dx >= dy {
		lo, hi := window(x0, sx, dx)
		for k := lo; k <= hi; k++ {
			r.plot(x0+sx*k, y0+sy*offset(k, dx, dy))
		}
		return
	}
	lo, hi := window(y0, sy, dy)
	for k := lo; k <= hi; k++ {
		r.plot(x0+sx*offset(k, dy, dx), y0+sy*k)
	}
}

func (r *rasterizer) plot(x, y int64) {
	if 0 <= x && x < Size && 0 <= y && y < Size {
		r.grid.Pixels[y][x] = r.pen
	}
}

// window returns the steps k in [0, n] for which start+s*k is a grid index.
// The range is empty when lo > hi.
func window(start, s, n int64) (lo, hi int64) {
	if s > 0 {
		return max(0, -start), min(n, Size-1-start)
	}
	return max(0, start-(Size-1)), min(n, start)
}

// offset is the minor-axis distance after k major steps: the smallest m with
// 2*m*major >= 2*k*minor - major.
func offset(k, major, minor int64) int64 {
	num := 2*k*minor - major
	if major == 0 || num <= 0 {
		return 0
	}
	d := 2 * major
	return (num + d - 1) / d
}

func step(from, to int64) int64 {
	if from < to {
		return 1
	}
	return -1
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
