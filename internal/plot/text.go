package plot

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

type textAlign int

const (
	alignLeft textAlign = iota
	alignCenter
)

var face = basicfont.Face7x13

const (
	textAscent  = 11
	textDescent = 2
	lineGap     = 4
)

// drawText draws s with its baseline at y.
func drawText(dst draw.Image, s string, x, y int, align textAlign, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
	}
	if align == alignCenter {
		x -= d.MeasureString(s).Round() / 2
	}
	d.Dot = fixed.P(x, y)
	d.DrawString(s)
}

// drawTextVertical draws s rotated 90° counter-clockwise, centered on
// (x, cy); x is the right edge of the glyph column.
func drawTextVertical(dst *image.RGBA, s string, x, cy int, c color.Color) {
	w := font.MeasureString(face, s).Round()
	h := textAscent + textDescent
	if w <= 0 {
		return
	}

	tmp := image.NewRGBA(image.Rect(0, 0, w, h))
	drawText(tmp, s, 0, textAscent, alignLeft, c)

	// (tx, ty) -> (x-h+ty, cy+w/2-tx)
	bounds := dst.Bounds()
	for ty := 0; ty < h; ty++ {
		for tx := 0; tx < w; tx++ {
			px := tmp.RGBAAt(tx, ty)
			if px.A == 0 {
				continue
			}
			p := image.Pt(x-h+ty, cy+w/2-tx)
			if p.In(bounds) {
				dst.SetRGBA(p.X, p.Y, px)
			}
		}
	}
}
