package animation

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"math"
	"os"

	"golang.org/x/image/draw"
)

// GIFWriter keeps paletted frames in memory and writes them on Finish.
type GIFWriter struct {
	FPS float64

	path  string
	delay int
	anim  gif.GIF
}

func NewGIFWriter(fps float64) *GIFWriter {
	return &GIFWriter{FPS: fps}
}

func (w *GIFWriter) Setup(size image.Point, outPath string) error {
	if w.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %v", w.FPS)
	}
	w.path = outPath
	// задержка GIF в сотых долях секунды, минимум 1
	w.delay = int(math.Max(1, math.Round(100/w.FPS)))
	w.anim = gif.GIF{
		Config: image.Config{Width: size.X, Height: size.Y, ColorModel: color.Palette(palette.Plan9)},
	}
	return nil
}

func (w *GIFWriter) Grab(frame *image.RGBA) error {
	b := frame.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(p, b, frame, b.Min)
	w.anim.Image = append(w.anim.Image, p)
	w.anim.Delay = append(w.anim.Delay, w.delay)
	return nil
}

func (w *GIFWriter) Finish() (err error) {
	if len(w.anim.Image) == 0 {
		return errors.New("gif: no frames to write")
	}
	f, err := os.Create(w.path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return gif.EncodeAll(f, &w.anim)
}

func (w *GIFWriter) Abort() {
	w.anim = gif.GIF{}
}

// Frames is the number of frames grabbed so far.
func (w *GIFWriter) Frames() int {
	return len(w.anim.Image)
}
