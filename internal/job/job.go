package job

import (
	"errors"
	"fmt"
	"time"

	"github.com/ivlev/mapmovie/internal/photon"
	"github.com/ivlev/mapmovie/internal/plot"
	"github.com/ivlev/mapmovie/internal/source"
	"github.com/ivlev/mapmovie/internal/sunmap"
	"github.com/ivlev/mapmovie/internal/timeslice"
)

const CurrentVersion = "1.0"

var ErrNoWindow = errors.New("job has no time window")

// Job describes a whole movie run
type Job struct {
	Version string   `yaml:"version"`
	Window  *Window  `yaml:"window,omitempty"`
	Figure  Figure   `yaml:"figure,omitempty"`
	Movie   Movie    `yaml:"movie,omitempty"`
	Series  []Series `yaml:"series"`
}

// Window is the observation interval chunked into frames
type Window struct {
	Start    time.Time     `yaml:"start"`
	End      time.Time     `yaml:"end"`
	Step     time.Duration `yaml:"step"`
	Exposure time.Duration `yaml:"exposure"`
}

// Figure size in inches; zero width means one column per series
type Figure struct {
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
}

type Movie struct {
	FPS   float64 `yaml:"fps,omitempty"`
	DPI   int     `yaml:"dpi,omitempty"`
	Out   string  `yaml:"out,omitempty"`
	Codec string  `yaml:"codec,omitempty"`
	Stats bool    `yaml:"stats,omitempty"`
}

// Series is one input sequence shown in its own subplot
type Series struct {
	Name        string    `yaml:"name"`
	Kind        string    `yaml:"kind"`
	Path        string    `yaml:"path"`
	Instrument  string    `yaml:"instrument,omitempty"`
	Measurement string    `yaml:"measurement,omitempty"`
	Scale       float64   `yaml:"scale,omitempty"` // arcsec per pixel
	DPI         int       `yaml:"dpi,omitempty"`   // pdf pages
	Cmap        string    `yaml:"cmap,omitempty"`
	Norm        string    `yaml:"norm,omitempty"`
	VMin        float64   `yaml:"vmin,omitempty"`
	VMax        float64   `yaml:"vmax,omitempty"`
	Grid        *Grid     `yaml:"grid,omitempty"`
	Extent      []float64 `yaml:"extent,omitempty,flow"` // xmin, xmax, ymin, ymax
}

type Grid struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

var defaultPhotonGrid = Grid{Width: 64, Height: 64}

// Validate checks the job without touching the filesystem.
func (j *Job) Validate() error {
	if len(j.Series) == 0 {
		return errors.New("job has no series")
	}
	if j.Window != nil {
		if _, err := j.Windows(); err != nil {
			return err
		}
	}
	for i, s := range j.Series {
		if err := s.validate(j.Window != nil); err != nil {
			return fmt.Errorf("series %d (%s): %w", i, s.Name, err)
		}
	}
	if j.Movie.FPS < 0 || j.Movie.DPI < 0 {
		return fmt.Errorf("movie fps and dpi must not be negative")
	}
	return nil
}

func (s Series) validate(hasWindow bool) error {
	switch s.Kind {
	case source.KindImages, source.KindPDF:
	case source.KindPhotons:
		if !hasWindow {
			return ErrNoWindow
		}
		if len(s.Extent) != 4 {
			return fmt.Errorf("photons need extent [xmin, xmax, ymin, ymax], got %v", s.Extent)
		}
		if s.Grid != nil && (s.Grid.Width <= 0 || s.Grid.Height <= 0) {
			return fmt.Errorf("grid must be positive, got %dx%d", s.Grid.Width, s.Grid.Height)
		}
	default:
		return fmt.Errorf("unknown kind %q", s.Kind)
	}
	if s.Path == "" {
		return errors.New("path is not set")
	}
	return plot.ValidateSettings(s.PlotSettings())
}

// Windows chunks the job's time window into frames.
func (j *Job) Windows() ([]timeslice.Window, error) {
	if j.Window == nil {
		return nil, ErrNoWindow
	}
	w := j.Window
	return timeslice.MakeTimeSlices(w.Start, w.End, w.Step, w.Exposure)
}

// PlotSettings are the rendering hints stamped on every map of s.
func (s Series) PlotSettings() sunmap.PlotSettings {
	return sunmap.PlotSettings{Cmap: s.Cmap, Norm: s.Norm, VMin: s.VMin, VMax: s.VMax}
}

// SourceOptions turns s into the options source.Open needs. windows is only
// used by photon series.
func (s Series) SourceOptions(windows []timeslice.Window) source.Options {
	opts := source.Options{
		Instrument:  s.Instrument,
		Measurement: s.Measurement,
		Scale:       s.Scale,
		DPI:         s.DPI,
	}
	if s.Kind == source.KindPhotons && len(s.Extent) == 4 {
		grid := defaultPhotonGrid
		if s.Grid != nil {
			grid = *s.Grid
		}
		opts.Photons = &source.PhotonOptions{
			Binner: photon.Binner{
				Width:       grid.Width,
				Height:      grid.Height,
				XMin:        s.Extent[0],
				XMax:        s.Extent[1],
				YMin:        s.Extent[2],
				YMax:        s.Extent[3],
				Instrument:  s.Instrument,
				Measurement: s.Measurement,
			},
			Windows: windows,
		}
	}
	return opts
}

// FigureSize returns the figure size in inches for n side-by-side series.
func (j *Job) FigureSize(colWidth, height float64) (float64, float64) {
	w, h := j.Figure.Width, j.Figure.Height
	if w <= 0 {
		w = colWidth * float64(len(j.Series))
	}
	if h <= 0 {
		h = height
	}
	return w, h
}
