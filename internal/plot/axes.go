package plot

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/ivlev/mapmovie/internal/sunmap"
)

// Axes is one display region of a figure.
type Axes struct {
	Position      Rect
	Projection    sunmap.Projection
	Title         string
	XLabel        string
	YLabel        string
	Interpolation string // "nearest" (default) or "bilinear"
	FrameColor    color.RGBA
	TextColor     color.RGBA

	fig    *Figure
	images []*ImageArtist
}

func newAxes(fig *Figure, pos Rect, proj sunmap.Projection) *Axes {
	xl, yl := proj.AxisLabels()
	return &Axes{
		Position:   pos,
		Projection: proj,
		XLabel:     xl,
		YLabel:     yl,
		FrameColor: color.RGBA{A: 0xff},
		TextColor:  color.RGBA{A: 0xff},
		fig:        fig,
	}
}

func (a *Axes) Figure() *Figure {
	return a.fig
}

func (a *Axes) SetTitle(title string) {
	a.Title = title
}

func (a *Axes) Images() []*ImageArtist {
	return a.images
}

// ValidateSettings reports whether Imshow would accept s.
func ValidateSettings(s sunmap.PlotSettings) error {
	if _, err := ColorMapByName(s.Cmap); err != nil {
		return err
	}
	if _, err := ParseNormKind(s.Norm); err != nil {
		return err
	}
	if s.VMax != 0 && s.VMin >= s.VMax {
		return fmt.Errorf("vmin %g must be below vmax %g", s.VMin, s.VMax)
	}
	return nil
}

// fitNorm fills the limits left unset (zero) in s from g. A zero VMin next
// to a set VMax is taken literally, except for log norms.
func fitNorm(kind NormKind, s sunmap.PlotSettings, g sunmap.Grid) Norm {
	auto := AutoNorm(kind, g)
	n := Norm{Kind: kind, VMin: s.VMin, VMax: s.VMax}
	if s.VMax == 0 {
		n.VMax = auto.VMax
		if s.VMin == 0 {
			n.VMin = auto.VMin
		}
	}
	if kind == NormLog && n.VMin <= 0 {
		n.VMin = auto.VMin
	}
	return n
}

// Imshow adds an image artist for m. Colormap and norm come from the map's
// plot settings; unset limits are fitted to m's data once.
func (a *Axes) Imshow(m *sunmap.Map) (*ImageArtist, error) {
	if err := ValidateSettings(m.Plot); err != nil {
		return nil, err
	}
	cmap, _ := ColorMapByName(m.Plot.Cmap)
	kind, _ := ParseNormKind(m.Plot.Norm)
	norm := fitNorm(kind, m.Plot, m.Data)

	im := &ImageArtist{axes: a, data: m.Data, Cmap: cmap, Norm: norm}
	a.images = append(a.images, im)
	if title := m.Title(); title != "" {
		a.Title = title
	}
	return im, nil
}

func (a *Axes) interpolator() draw.Interpolator {
	if a.Interpolation == "bilinear" {
		return draw.BiLinear
	}
	return draw.NearestNeighbor
}

// PixelRect is the axes box inside a canvas.
func (a *Axes) PixelRect(canvas image.Rectangle) image.Rectangle {
	return a.Position.toPixels(canvas)
}

func (a *Axes) draw(dst *image.RGBA) {
	box := a.PixelRect(dst.Bounds())
	frame := box

	for i, im := range a.images {
		r := im.draw(dst, box, a.interpolator())
		if i == 0 && !r.Empty() {
			// рамка по размеру первого изображения (aspect=equal сжимает оси)
			frame = r
		}
	}

	strokeRect(dst, frame.Inset(-1), a.FrameColor)

	if a.Title != "" {
		drawText(dst, a.Title, frame.Min.X+frame.Dx()/2, frame.Min.Y-lineGap, alignCenter, a.TextColor)
	}
	if a.XLabel != "" {
		drawText(dst, a.XLabel, frame.Min.X+frame.Dx()/2, frame.Max.Y+lineGap+textAscent, alignCenter, a.TextColor)
	}
	if a.YLabel != "" {
		drawTextVertical(dst, a.YLabel, frame.Min.X-lineGap-textDescent, frame.Min.Y+frame.Dy()/2, a.TextColor)
	}
}

func (a *Axes) String() string {
	return fmt.Sprintf("Axes(%.3f,%.3f;%.3fx%.3f)", a.Position.X0, a.Position.Y0,
		a.Position.X1-a.Position.X0, a.Position.Y1-a.Position.Y0)
}

func strokeRect(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	src := image.NewUniform(c)
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(dst, edge.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}
