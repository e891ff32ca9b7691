package raster

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"github.com/dbnlang/dbn/core/invariant"
)

// Image converts the grid to greyscale, mapping level 0 to white and 100 to
// black. Levels outside 0..100 are clamped.
func (g *Grid) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, Size, Size))
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			img.SetGray(x, y, grey(g.At(x, y).Level))
		}
	}
	return img
}

func grey(level int) color.Gray {
	switch {
	case level < 0:
		level = 0
	case level > 100:
		level = 100
	}
	return color.Gray{Y: uint8(255 - level*255/100)}
}

// WritePNG encodes the grid as a width x height PNG. Pixels are scaled with
// nearest-neighbour sampling so the cells stay sharp.
func WritePNG(w io.Writer, g *Grid, width, height int) error {
	invariant.Precondition(width > 0 && height > 0, "png size must be positive, got %dx%d", width, height)

	src := g.Image()
	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return png.Encode(w, dst)
}
