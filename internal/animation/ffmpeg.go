package animation

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// DefaultCodec is the video codec used for non-GIF containers.
const DefaultCodec = "mpeg4"

// evenSizeFilter pads odd frame sizes, yuv420p needs even dimensions.
const evenSizeFilter = "pad=ceil(iw/2)*2:ceil(ih/2)*2"

var errAborted = errors.New("movie aborted")

// FFmpegWriter streams raw RGBA frames into an ffmpeg process.
type FFmpegWriter struct {
	FPS        float64
	Codec      string
	FFmpegPath string // empty means "ffmpeg" from PATH

	pw     *io.PipeWriter
	done   chan error
	stderr bytes.Buffer
	size   image.Point
}

func NewFFmpegWriter(fps float64, codec string) *FFmpegWriter {
	if codec == "" {
		codec = DefaultCodec
	}
	return &FFmpegWriter{FPS: fps, Codec: codec}
}

// Args returns the ffmpeg command line used for outPath, for logging.
func (w *FFmpegWriter) Args(size image.Point, outPath string) []string {
	return w.stream(size, outPath, nil).GetArgs()
}

func (w *FFmpegWriter) stream(size image.Point, outPath string, in io.Reader) *ffmpeg.Stream {
	s := ffmpeg.Input("pipe:", ffmpeg.KwArgs{
		"format":  "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", size.X, size.Y),
		"r":       fmt.Sprintf("%g", w.FPS),
	}).Output(outPath, ffmpeg.KwArgs{
		"c:v":     w.Codec,
		"pix_fmt": "yuv420p",
		"vf":      evenSizeFilter,
	}).OverWriteOutput()
	if in != nil {
		s = s.WithInput(in)
	}
	if w.FFmpegPath != "" {
		s = s.SetFfmpegPath(w.FFmpegPath)
	}
	return s
}

func (w *FFmpegWriter) Setup(size image.Point, outPath string) error {
	if w.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %v", w.FPS)
	}
	if w.Codec == "" {
		w.Codec = DefaultCodec
	}

	pr, pw := io.Pipe()
	w.pw = pw
	w.size = size
	w.done = make(chan error, 1)
	w.stderr.Reset()

	stream := w.stream(size, outPath, pr).WithErrorOutput(&w.stderr)
	go func() {
		err := stream.Run()
		// если ffmpeg завершился раньше времени, разблокируем Grab
		pr.CloseWithError(err)
		w.done <- err
	}()
	return nil
}

func (w *FFmpegWriter) Grab(frame *image.RGBA) error {
	if frame.Bounds().Size() != w.size {
		return fmt.Errorf("frame size %v does not match movie size %v", frame.Bounds().Size(), w.size)
	}
	if err := writeRawRGBA(w.pw, frame); err != nil {
		return fmt.Errorf("write raw frame: %w", err)
	}
	return nil
}

func (w *FFmpegWriter) Finish() error {
	w.pw.Close()
	w.pw = nil
	if err := <-w.done; err != nil {
		return fmt.Errorf("ffmpeg: %w, output: %s", err, strings.TrimSpace(w.stderr.String()))
	}
	return nil
}

func (w *FFmpegWriter) Abort() {
	if w.pw == nil {
		return
	}
	w.pw.CloseWithError(errAborted)
	w.pw = nil
	<-w.done
}

func writeRawRGBA(out io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	rgba := img
	if rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rectangle{Max: bounds.Size()})
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	_, err := out.Write(rgba.Pix)
	return err
}
