package plot

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/ivlev/mapmovie/internal/sunmap"
)

// Rect is a rectangle in figure fractions, origin at the bottom left.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// SubplotParams mirror the usual subplot spacing, in figure fractions.
type SubplotParams struct {
	Left, Right, Bottom, Top float64
	WSpace, HSpace           float64
}

func DefaultSubplotParams() SubplotParams {
	return SubplotParams{Left: 0.125, Right: 0.9, Bottom: 0.11, Top: 0.88, WSpace: 0.2, HSpace: 0.2}
}

// Figure is the shared drawing surface. All axes render into it.
type Figure struct {
	Width, Height float64 // inches
	Background    color.RGBA
	Params        SubplotParams

	axes []*Axes
}

func NewFigure(width, height float64) *Figure {
	return &Figure{
		Width:      width,
		Height:     height,
		Background: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Params:     DefaultSubplotParams(),
	}
}

// AddSubplot adds axes at the 1-based index of a rows x cols grid, filled
// row by row.
func (f *Figure) AddSubplot(rows, cols, index int, proj sunmap.Projection) (*Axes, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("subplot grid must be positive, got %dx%d", rows, cols)
	}
	if index < 1 || index > rows*cols {
		return nil, fmt.Errorf("subplot index %d out of range 1..%d", index, rows*cols)
	}

	p := f.Params
	cellW := (p.Right - p.Left) / (float64(cols) + p.WSpace*float64(cols-1))
	cellH := (p.Top - p.Bottom) / (float64(rows) + p.HSpace*float64(rows-1))
	row, col := (index-1)/cols, (index-1)%cols

	x0 := p.Left + float64(col)*cellW*(1+p.WSpace)
	y1 := p.Top - float64(row)*cellH*(1+p.HSpace)

	ax := newAxes(f, Rect{X0: x0, Y0: y1 - cellH, X1: x0 + cellW, Y1: y1}, proj)
	f.axes = append(f.axes, ax)
	return ax, nil
}

func (f *Figure) Axes() []*Axes {
	return f.axes
}

// PixelSize is the raster size of the figure at dpi.
func (f *Figure) PixelSize(dpi int) image.Point {
	w := int(math.Round(f.Width * float64(dpi)))
	h := int(math.Round(f.Height * float64(dpi)))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return image.Pt(w, h)
}

// RenderTo paints the whole figure into dst, laid out over dst's bounds.
func (f *Figure) RenderTo(dst *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(f.Background), image.Point{}, draw.Src)
	for _, ax := range f.axes {
		ax.draw(dst)
	}
}

// toPixels converts a figure-fraction rectangle to raster coordinates.
func (r Rect) toPixels(canvas image.Rectangle) image.Rectangle {
	w, h := float64(canvas.Dx()), float64(canvas.Dy())
	return image.Rect(
		canvas.Min.X+int(math.Round(r.X0*w)),
		canvas.Min.Y+int(math.Round((1-r.Y1)*h)),
		canvas.Min.X+int(math.Round(r.X1*w)),
		canvas.Min.Y+int(math.Round((1-r.Y0)*h)),
	)
}
