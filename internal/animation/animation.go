package animation

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/ivlev/mapmovie/internal/plot"
	"github.com/ivlev/mapmovie/internal/system"
)

var ErrUnsupportedFormat = errors.New("unsupported movie format")

// Writer receives rendered frames and encodes them into a movie file.
type Writer interface {
	Setup(size image.Point, outPath string) error
	// Grab consumes frame before returning; the caller reuses its buffer.
	Grab(frame *image.RGBA) error
	Finish() error
	// Abort releases resources after a failed run without writing output.
	Abort()
}

// UpdateFunc prepares the figure for frame i.
type UpdateFunc func(i int) error

// FuncAnimation renders Frames frames of Figure, calling Update before
// each one.
type FuncAnimation struct {
	Figure *plot.Figure
	Frames int
	Update UpdateFunc
	// Canvases defaults to system.DefaultCanvasPool.
	Canvases *system.CanvasPool
}

// Save drives the animation loop and hands every frame to w in order.
func (a *FuncAnimation) Save(ctx context.Context, outPath string, dpi int, w Writer) (err error) {
	size := a.Figure.PixelSize(dpi)
	if err := w.Setup(size, outPath); err != nil {
		return fmt.Errorf("setup writer for %s: %w", outPath, err)
	}
	defer func() {
		if err != nil {
			w.Abort()
		}
	}()

	pool := a.Canvases
	if pool == nil {
		pool = system.DefaultCanvasPool
	}
	for i := 0; i < a.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if a.Update != nil {
			if err := a.Update(i); err != nil {
				return fmt.Errorf("update frame %d: %w", i, err)
			}
		}

		canvas := pool.Get(size)
		a.Figure.RenderTo(canvas)
		err := w.Grab(canvas)
		pool.Put(canvas)
		if err != nil {
			return fmt.Errorf("grab frame %d: %w", i, err)
		}
	}

	if err := w.Finish(); err != nil {
		return fmt.Errorf("finish %s: %w", outPath, err)
	}
	return nil
}

// WriterFor picks a writer from the extension of outPath.
func WriterFor(outPath string, fps float64, codec string) (Writer, error) {
	switch ext := strings.ToLower(filepath.Ext(outPath)); ext {
	case ".gif":
		return NewGIFWriter(fps), nil
	case ".mp4", ".avi", ".mov", ".mkv":
		return NewFFmpegWriter(fps, codec), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
