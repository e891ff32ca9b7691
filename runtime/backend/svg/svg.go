// Package svg renders a drawing trace as SVG markup.
//
// The canvas is always 100x100 user units; Width and Height only set the
// size the document asks to be displayed at. Nothing is clipped, so shapes
// outside the canvas are still emitted.
package svg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dbnlang/dbn/runtime/backend"
	"github.com/dbnlang/dbn/runtime/trace"
)

// Attr is one attribute. Attributes are kept in insertion order.
type Attr struct {
	Key   string
	Value string
}

// Node is an element of the shape tree.
type Node struct {
	Tag      string
	Attrs    []Attr
	Children []*Node
}

// Attr returns the value of the attribute named key.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Opt configures the backend.
type Opt func(*Backend)

// WithSize sets the displayed width and height in pixels.
func WithSize(width, height int) Opt {
	return func(b *Backend) {
		b.width = width
		b.height = height
	}
}

// Backend is the vector renderer.
type Backend struct {
	width  int
	height int
}

var _ backend.Backend[*Node] = (*Backend)(nil)

// New returns a vector backend, 100x100 pixels unless configured otherwise.
func New(opts ...Opt) *Backend {
	b := &Backend{width: backend.Canvas, height: backend.Canvas}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Transform builds the shape tree for t.
func (b *Backend) Transform(t trace.Trace) (*Node, error) {
	root := &Node{
		Tag: "svg",
		Attrs: []Attr{
			{"width", strconv.Itoa(b.width)},
			{"height", strconv.Itoa(b.height)},
			{"viewBox", "0 0 100 100"},
			{"xmlns", "http://www.w3.org/2000/svg"},
			{"version", "1.1"},
		},
	}
	tr := &transformer{root: root, stroke: grey(100 - backend.DefaultPen)}
	if err := trace.Walk(t, tr); err != nil {
		return nil, err
	}
	return root, nil
}

// Generate serializes the tree. Attribute values are written as they are.
func (b *Backend) Generate(root *Node) (string, error) {
	var sb strings.Builder
	write(&sb, root)
	return sb.String(), nil
}

func write(sb *strings.Builder, n *Node) {
	sb.WriteString("<")
	sb.WriteString(n.Tag)
	for _, a := range n.Attrs {
		sb.WriteString(" " + a.Key + "=\"" + a.Value + "\"")
	}
	sb.WriteString(">")
	for _, c := range n.Children {
		write(sb, c)
	}
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteString(">")
}

// transformer walks a trace and appends shapes to root.
type transformer struct {
	root   *Node
	stroke string
}

func (t *transformer) add(n *Node) {
	t.root.Children = append(t.root.Children, n)
}

func (t *transformer) VisitBackground(op trace.Background) error {
	c, err := backend.Int(op, op.Colour)
	if err != nil {
		return err
	}
	fill, err := rgb(op, c)
	if err != nil {
		return err
	}
	t.add(&Node{Tag: "rect", Attrs: []Attr{
		{"x", "0"},
		{"y", "0"},
		{"width", "100"},
		{"height", "100"},
		{"fill", fill},
	}})
	return nil
}

// VisitForeground only changes the pen. Background leaves it alone.
func (t *transformer) VisitForeground(op trace.Foreground) error {
	c, err := backend.Int(op, op.Colour)
	if err != nil {
		return err
	}
	t.stroke, err = rgb(op, c)
	return err
}

func (t *transformer) VisitLine(op trace.Line) error {
	v, err := ints(op, op.X0, op.Y0, op.X1, op.Y1)
	if err != nil {
		return err
	}
	y1, err := backend.FlipY(op, v[1])
	if err != nil {
		return err
	}
	y2, err := backend.FlipY(op, v[3])
	if err != nil {
		return err
	}
	t.add(&Node{Tag: "line", Attrs: []Attr{
		{"x1", strconv.Itoa(v[0])},
		{"y1", strconv.Itoa(y1)},
		{"x2", strconv.Itoa(v[2])},
		{"y2", strconv.Itoa(y2)},
		{"stroke", t.stroke},
		{"stroke-linecap", "round"},
	}})
	return nil
}

// VisitPoint fills a unit square with the point's own colour.
func (t *transformer) VisitPoint(op trace.Point) error {
	v, err := ints(op, op.X, op.Y, op.Colour)
	if err != nil {
		return err
	}
	y, err := backend.FlipY(op, v[1])
	if err != nil {
		return err
	}
	fill, err := rgb(op, v[2])
	if err != nil {
		return err
	}
	t.add(&Node{Tag: "rect", Attrs: []Attr{
		{"x", strconv.Itoa(v[0])},
		{"y", strconv.Itoa(y)},
		{"width", "1"},
		{"height", "1"},
		{"fill", fill},
	}})
	return nil
}

func ints(op trace.Op, values ...string) ([]int, error) {
	out := make([]int, len(values))
	for i, s := range values {
		n, err := backend.Int(op, s)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// rgb maps a DBN grey level (0 white, 100 black) to an SVG colour.
func rgb(op trace.Op, colour int) (string, error) {
	p, err := backend.Lightness(op, colour)
	if err != nil {
		return "", err
	}
	return grey(p), nil
}

func grey(lightness int) string {
	return fmt.Sprintf("rgb(%d%%,%d%%,%d%%)", lightness, lightness, lightness)
}
