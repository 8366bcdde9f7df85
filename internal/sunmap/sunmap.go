package sunmap

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/tiendc/go-deepcopy"
)

// Grid is a row-major 2D array of samples. Row 0 is the bottom row.
type Grid struct {
	Width  int       `yaml:"width"`
	Height int       `yaml:"height"`
	Values []float64 `yaml:"-"`
}

func NewGrid(width, height int) Grid {
	return Grid{Width: width, Height: height, Values: make([]float64, width*height)}
}

func (g Grid) At(x, y int) float64 {
	return g.Values[y*g.Width+x]
}

func (g Grid) Set(x, y int, v float64) {
	g.Values[y*g.Width+x] = v
}

// MinMax returns the range of the finite samples.
func (g Grid) MinMax() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range g.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	return lo, hi, ok
}

// GridFromImage converts img to luminance samples in [0, 255], flipping
// rows so that the top of the image ends up as the last row.
func GridFromImage(img image.Image) Grid {
	b := img.Bounds()
	g := NewGrid(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := b.Max.Y - 1 - y
		for x := b.Min.X; x < b.Max.X; x++ {
			gray := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			g.Set(x-b.Min.X, row, float64(gray.Y))
		}
	}
	return g
}

// Projection holds the linear part of a FITS-style world coordinate system.
type Projection struct {
	Frame  string  `yaml:"frame"`
	CUnit1 string  `yaml:"cunit1"`
	CUnit2 string  `yaml:"cunit2"`
	CRPix1 float64 `yaml:"crpix1"`
	CRPix2 float64 `yaml:"crpix2"`
	CRVal1 float64 `yaml:"crval1"`
	CRVal2 float64 `yaml:"crval2"`
	CDelt1 float64 `yaml:"cdelt1"`
	CDelt2 float64 `yaml:"cdelt2"`
}

// PixelProjection maps pixels one to one onto world coordinates.
func PixelProjection() Projection {
	return Projection{Frame: "pixel", CUnit1: "pix", CUnit2: "pix", CDelt1: 1, CDelt2: 1}
}

// Helioprojective centers a grid of the given size on disk center with
// scale arcsec per pixel.
func Helioprojective(width, height int, scale float64) Projection {
	return Projection{
		Frame:  "helioprojective",
		CUnit1: "arcsec",
		CUnit2: "arcsec",
		CRPix1: float64(width-1) / 2,
		CRPix2: float64(height-1) / 2,
		CDelt1: scale,
		CDelt2: scale,
	}
}

func (p Projection) PixelToWorld(x, y float64) (float64, float64) {
	return p.CRVal1 + (x-p.CRPix1)*p.CDelt1, p.CRVal2 + (y-p.CRPix2)*p.CDelt2
}

func (p Projection) WorldToPixel(wx, wy float64) (float64, float64) {
	return p.CRPix1 + (wx-p.CRVal1)/p.CDelt1, p.CRPix2 + (wy-p.CRVal2)/p.CDelt2
}

// AxisLabels returns axis titles such as "Solar X [arcsec]".
func (p Projection) AxisLabels() (string, string) {
	switch strings.ToLower(p.Frame) {
	case "helioprojective":
		return fmt.Sprintf("Solar X [%s]", p.CUnit1), fmt.Sprintf("Solar Y [%s]", p.CUnit2)
	case "", "pixel":
		return "x [pix]", "y [pix]"
	default:
		return fmt.Sprintf("%s 1 [%s]", p.Frame, p.CUnit1), fmt.Sprintf("%s 2 [%s]", p.Frame, p.CUnit2)
	}
}

// PlotSettings are the rendering hints carried by a map. A zero VMax is
// fitted to the data, and so is VMin when both are zero.
type PlotSettings struct {
	Cmap string  `yaml:"cmap"`
	Norm string  `yaml:"norm"`
	VMin float64 `yaml:"vmin"`
	VMax float64 `yaml:"vmax"`
}

type Meta struct {
	Observed    time.Time         `yaml:"observed"`
	Instrument  string            `yaml:"instrument"`
	Measurement string            `yaml:"measurement"`
	Header      map[string]string `yaml:"header"`
}

// Map is a single image frame with its observation metadata.
type Map struct {
	Data       Grid
	Meta       Meta
	Projection Projection
	Plot       PlotSettings
}

func New(data Grid, meta Meta, proj Projection) *Map {
	return &Map{Data: data, Meta: meta, Projection: proj}
}

// Title is "<instrument> <measurement> <date>" with empty parts skipped.
func (m *Map) Title() string {
	var parts []string
	if m.Meta.Instrument != "" {
		parts = append(parts, m.Meta.Instrument)
	}
	if m.Meta.Measurement != "" {
		parts = append(parts, m.Meta.Measurement)
	}
	if !m.Meta.Observed.IsZero() {
		parts = append(parts, m.Meta.Observed.UTC().Format("2006-01-02 15:04:05"))
	}
	return strings.Join(parts, " ")
}

// Clone returns a copy that shares no memory with m.
func (m *Map) Clone() (*Map, error) {
	c := &Map{Meta: m.Meta, Projection: m.Projection, Plot: m.Plot}
	if err := deepcopy.Copy(&c.Data, &m.Data); err != nil {
		return nil, fmt.Errorf("copy map data: %w", err)
	}
	c.Meta.Header = nil
	if m.Meta.Header != nil {
		if err := deepcopy.Copy(&c.Meta.Header, &m.Meta.Header); err != nil {
			return nil, fmt.Errorf("copy map header: %w", err)
		}
	}
	return c, nil
}
