package raster

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbnlang/dbn/core/diag"
	"github.com/dbnlang/dbn/runtime/trace"
)

func transform(t *testing.T, tr trace.Trace) *Grid {
	t.Helper()
	b, err := New(EncodingTest)
	require.NoError(t, err)
	g, err := b.Transform(tr)
	require.NoError(t, err)
	return g
}

func generate(t *testing.T, e Encoding, tr trace.Trace) []string {
	t.Helper()
	b, err := New(e)
	require.NoError(t, err)
	g, err := b.Transform(tr)
	require.NoError(t, err)
	out, err := b.Generate(g)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(out, "\n"))
	return strings.Split(strings.TrimSuffix(out, "\n"), "\n")
}

// drawn returns the cells that hold a colour, as "x,y=colour".
func drawn(g *Grid) []string {
	var out []string
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if p := g.Pixels[y][x]; p.drawn() {
				out = append(out, fmt.Sprintf("%03d,%03d=%s", x, y, p.Colour))
			}
		}
	}
	return out
}

func TestUnknownEncoding(t *testing.T) {
	_, err := New("jpeg")
	require.Error(t, err)
	assert.True(t, diag.IsInternal(err))

	_, err = (&Backend{encoding: "jpeg"}).Generate(&Grid{})
	assert.True(t, diag.IsInternal(err))
}

func TestEmptyGrid(t *testing.T) {
	rows := generate(t, EncodingTest, nil)
	require.Len(t, rows, Size)
	for _, row := range rows {
		assert.Equal(t, strings.Repeat("0   ", Size), row)
	}

	rows = generate(t, EncodingBinary, nil)
	require.Len(t, rows, Size)
	for _, row := range rows {
		assert.Equal(t, strings.Repeat(" ", Size), row)
	}
}

func TestPointsAreFlipped(t *testing.T) {
	g := transform(t, trace.Trace{
		trace.Point{X: "0", Y: "100", Colour: "7"},
		trace.Point{X: "100", Y: "0", Colour: "8"},
	})
	assert.Equal(t, []string{"000,000=7", "100,100=8"}, drawn(g))
}

func TestOffCanvasPointIsDropped(t *testing.T) {
	g := transform(t, trace.Trace{
		trace.Point{X: "101", Y: "50", Colour: "100"},
		trace.Point{X: "50", Y: "-1", Colour: "100"},
		trace.Point{X: "-3", Y: "200", Colour: "100"},
	})
	assert.Empty(t, drawn(g))
}

func TestLines(t *testing.T) {
	t.Run("horizontal", func(t *testing.T) {
		g := transform(t, trace.Trace{trace.Line{X0: "0", Y0: "50", X1: "3", Y1: "50"}})
		assert.Equal(t, []string{"000,050=100", "001,050=100", "002,050=100", "003,050=100"}, drawn(g))
	})

	t.Run("diagonal", func(t *testing.T) {
		g := transform(t, trace.Trace{trace.Line{X0: "0", Y0: "0", X1: "2", Y1: "2"}})
		assert.Equal(t, []string{"002,098=100", "001,099=100", "000,100=100"}, drawn(g))
	})

	t.Run("reversed endpoints", func(t *testing.T) {
		g := transform(t, trace.Trace{trace.Line{X0: "2", Y0: "2", X1: "0", Y1: "0"}})
		assert.Equal(t, []string{"002,098=100", "001,099=100", "000,100=100"}, drawn(g))
	})

	t.Run("single point", func(t *testing.T) {
		g := transform(t, trace.Trace{trace.Line{X0: "5", Y0: "5", X1: "5", Y1: "5"}})
		assert.Equal(t, []string{"005,095=100"}, drawn(g))
	})

	t.Run("clipped", func(t *testing.T) {
		g := transform(t, trace.Trace{trace.Line{X0: "-2", Y0: "0", X1: "1", Y1: "0"}})
		assert.Equal(t, []string{"000,100=100", "001,100=100"}, drawn(g))
	})

	t.Run("pen colour", func(t *testing.T) {
		g := transform(t, trace.Trace{
			trace.Foreground{Colour: "30"},
			trace.Line{X0: "0", Y0: "100", X1: "1", Y1: "100"},
		})
		assert.Equal(t, []string{"000,000=30", "001,000=30"}, drawn(g))
	})
}

func TestLaterDrawsOverwrite(t *testing.T) {
	g := transform(t, trace.Trace{
		trace.Point{X: "1", Y: "100", Colour: "5"},
		trace.Line{X0: "0", Y0: "100", X1: "2", Y1: "100"},
		trace.Point{X: "2", Y: "100", Colour: "9"},
	})
	assert.Equal(t, []string{"000,000=100", "001,000=100", "002,000=9"}, drawn(g))
}

func TestTestEncoding(t *testing.T) {
	rows := generate(t, EncodingTest, trace.Trace{
		trace.Background{Colour: "12"},
		trace.Point{X: "0", Y: "100", Colour: "7"},
		trace.Point{X: "1", Y: "100", Colour: "100"},
		trace.Point{X: "2", Y: "100", Colour: "1000"},
	})
	assert.True(t, strings.HasPrefix(rows[0], "7   100 1000 12  12  "), rows[0])
	assert.Equal(t, strings.Repeat("12  ", Size), rows[1])
}

func TestBinaryEncoding(t *testing.T) {
	rows := generate(t, EncodingBinary, trace.Trace{
		trace.Point{X: "0", Y: "100", Colour: "49"},
		trace.Point{X: "1", Y: "100", Colour: "50"},
		trace.Point{X: "2", Y: "100", Colour: "100"},
	})
	assert.Equal(t, " oo"+strings.Repeat(" ", Size-3), rows[0])

	rows = generate(t, EncodingBinary, trace.Trace{trace.Background{Colour: "60"}})
	assert.Equal(t, strings.Repeat("o", Size), rows[50])
}

func TestBackgroundKeepsPen(t *testing.T) {
	g := transform(t, trace.Trace{
		trace.Foreground{Colour: "40"},
		trace.Background{Colour: "0"},
		trace.Point{X: "0", Y: "0", Colour: "1"},
		trace.Line{X0: "1", Y0: "0", X1: "1", Y1: "0"},
	})
	assert.Equal(t, []string{"000,100=1", "001,100=40"}, drawn(g))
}

func TestOutOfRangeValueIsLocated(t *testing.T) {
	loc := diag.Location{Line: 4, Column: 0, Source: "Line 0 0 0 99999999999999999999"}
	b, err := New(EncodingBinary)
	require.NoError(t, err)
	_, err = b.Transform(trace.Trace{
		trace.Line{At: trace.At{Loc: loc}, X0: "0", Y0: "0", X1: "0", Y1: "99999999999999999999"},
	})
	d, ok := diag.As(err)
	require.True(t, ok)
	assert.Equal(t, diag.Input, d.Kind)
	assert.Equal(t, loc, d.Location)
}

// stepwise draws a line one Bresenham step at a time.
func stepwise(g *Grid, x0, y0, x1, y1 int, p Pixel) {
	dx, dy := x1-x0, y1-y0
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	e := dx - dy
	for {
		g.set(x0, y0, p)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x0 += sx
		}
		if e2 < dx {
			e += dx
			y0 += sy
		}
	}
}

func TestLineMatchesStepwise(t *testing.T) {
	coords := []int{-40, -3, 0, 7, 33, 50, 100, 101, 133}
	pen := Pixel{Colour: "100", Level: 100}
	got, want := &Grid{}, &Grid{}
	r := &rasterizer{grid: got, pen: pen}

	for _, x0 := range coords {
		for _, y0 := range coords {
			for _, x1 := range coords {
				for _, y1 := range coords {
					*got, *want = Grid{}, Grid{}
					r.line(int64(x0), int64(y0), int64(x1), int64(y1))
					stepwise(want, x0, y0, x1, y1, pen)
					if !assert.Equal(t, drawn(want), drawn(got), "line %d,%d to %d,%d", x0, y0, x1, y1) {
						return
					}
				}
			}
		}
	}
}

func TestExtremeLinesFinish(t *testing.T) {
	loc := diag.Location{Line: 1, Column: 0, Source: "Line"}
	tests := []struct {
		name   string
		line   trace.Line
		err    string
		pixels int
	}{
		{
			name: "min x",
			line: trace.Line{X0: "-9223372036854775808", Y0: "0", X1: "0", Y1: "0"},
			err:  `Number "-9223372036854775808" is out of range for line.`,
		},
		{
			name: "min y",
			line: trace.Line{X0: "0", Y0: "-9223372036854775808", X1: "0", Y1: "0"},
			err:  `Number "-9223372036854775808" is out of range for line.`,
		},
		{
			name: "past limit",
			line: trace.Line{X0: "0", Y0: "0", X1: strconv.Itoa(MaxCoord + 1), Y1: "0"},
			err:  `Number "268435457" is out of range for line.`,
		},
		{
			name:   "long horizontal",
			line:   trace.Line{X0: strconv.Itoa(-MaxCoord), Y0: "50", X1: strconv.Itoa(MaxCoord), Y1: "50"},
			pixels: Size,
		},
		{
			name:   "long diagonal",
			line:   trace.Line{X0: strconv.Itoa(-MaxCoord), Y0: strconv.Itoa(-MaxCoord), X1: strconv.Itoa(MaxCoord), Y1: strconv.Itoa(MaxCoord)},
			pixels: Size,
		},
		{
			name: "long off canvas",
			line: trace.Line{X0: strconv.Itoa(-MaxCoord), Y0: "500", X1: strconv.Itoa(MaxCoord), Y1: "900"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.line.At = trace.At{Loc: loc}
			b, err := New(EncodingTest)
			require.NoError(t, err)

			type result struct {
				grid *Grid
				err  error
			}
			done := make(chan result, 1)
			go func() {
				g, err := b.Transform(trace.Trace{tt.line})
				done <- result{g, err}
			}()

			var res result
			select {
			case res = <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("Transform did not finish")
			}

			if tt.err != "" {
				d, ok := diag.As(res.err)
				require.True(t, ok, "%v", res.err)
				assert.Equal(t, diag.Input, d.Kind)
				assert.Equal(t, loc, d.Location)
				assert.Equal(t, tt.err, d.Message)
				return
			}
			require.NoError(t, res.err)
			assert.Len(t, drawn(res.grid), tt.pixels)
		})
	}
}

func TestPointFlipOverflowIsLocated(t *testing.T) {
	loc := diag.Location{Line: 2, Column: 0, Source: "Set [0 -9223372036854775808] 100"}
	b, err := New(EncodingTest)
	require.NoError(t, err)
	_, err = b.Transform(trace.Trace{
		trace.Point{At: trace.At{Loc: loc}, X: "0", Y: "-9223372036854775808", Colour: "100"},
	})
	d, ok := diag.As(err)
	require.True(t, ok)
	assert.Equal(t, diag.Input, d.Kind)
	assert.Equal(t, loc, d.Location)
}

func TestAtRejectsOffGrid(t *testing.T) {
	g := &Grid{}
	assert.Panics(t, func() { g.At(Size, 0) })
	assert.Panics(t, func() { g.At(0, -1) })
	assert.NotPanics(t, func() { g.At(Size-1, Size-1) })
}

func TestWritePNG(t *testing.T) {
	g := transform(t, trace.Trace{
		trace.Point{X: "0", Y: "100", Colour: "100"},
	})

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, g, 2*Size, 2*Size))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2*Size, img.Bounds().Dx())
	assert.Equal(t, 2*Size, img.Bounds().Dy())

	black := color.GrayModel.Convert(img.At(1, 1)).(color.Gray)
	white := color.GrayModel.Convert(img.At(10, 10)).(color.Gray)
	assert.Equal(t, uint8(0), black.Y)
	assert.Equal(t, uint8(255), white.Y)
}

func TestImageClampsLevels(t *testing.T) {
	g := transform(t, trace.Trace{
		trace.Point{X: "0", Y: "100", Colour: "500"},
		trace.Point{X: "1", Y: "100", Colour: "-5"},
	})
	img := g.Image()
	assert.Equal(t, uint8(0), img.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), img.GrayAt(1, 0).Y)
}
