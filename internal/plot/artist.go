package plot

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/ivlev/mapmovie/internal/sunmap"
)

// ImageArtist draws a data grid into its axes through a colormap and norm.
type ImageArtist struct {
	Cmap *ColorMap
	Norm Norm

	axes *Axes
	data sunmap.Grid
}

func (im *ImageArtist) Axes() *Axes {
	return im.axes
}

// SetArray replaces the pixel data. The norm is left as is.
func (im *ImageArtist) SetArray(g sunmap.Grid) {
	im.data = g
}

func (im *ImageArtist) Data() sunmap.Grid {
	return im.data
}

// Colorize maps the data through norm and colormap. Row 0 of the grid
// becomes the bottom row of the image.
func (im *ImageArtist) Colorize() *image.RGBA {
	g := im.data
	out := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		row := g.Height - 1 - y
		for x := 0; x < g.Width; x++ {
			out.SetRGBA(x, row, im.Cmap.At(im.Norm.Scale(g.At(x, y))))
		}
	}
	return out
}

// draw fits the image into box keeping square pixels and returns the
// rectangle it covered.
func (im *ImageArtist) draw(dst *image.RGBA, box image.Rectangle, interp draw.Interpolator) image.Rectangle {
	g := im.data
	if g.Width == 0 || g.Height == 0 || box.Empty() {
		return image.Rectangle{}
	}

	scale := math.Min(float64(box.Dx())/float64(g.Width), float64(box.Dy())/float64(g.Height))
	w := int(math.Round(float64(g.Width) * scale))
	h := int(math.Round(float64(g.Height) * scale))
	if w < 1 || h < 1 {
		return image.Rectangle{}
	}
	x0 := box.Min.X + (box.Dx()-w)/2
	y0 := box.Min.Y + (box.Dy()-h)/2
	dr := image.Rect(x0, y0, x0+w, y0+h)

	src := im.Colorize()
	interp.Scale(dst, dr, src, src.Bounds(), draw.Over, nil)
	return dr
}
