package movie

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ivlev/mapmovie/internal/animation"
	"github.com/ivlev/mapmovie/internal/logging"
	"github.com/ivlev/mapmovie/internal/plot"
	"github.com/ivlev/mapmovie/internal/sunmap"
	"github.com/ivlev/mapmovie/internal/system"
)

const (
	DefaultFPS     = 30
	DefaultDPI     = 100
	DefaultOutPath = "./movie.gif"
)

// MovieOptions control a single MakeMovie run. Zero values take defaults.
type MovieOptions struct {
	FPS     float64
	DPI     int
	OutPath string
	Codec   string
	// Writer overrides the writer chosen from the OutPath extension.
	Writer    animation.Writer
	ShowStats bool
}

func (o MovieOptions) withDefaults() MovieOptions {
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}
	if o.OutPath == "" {
		o.OutPath = DefaultOutPath
	}
	if o.Codec == "" {
		o.Codec = animation.DefaultCodec
	}
	return o
}

type Option func(*Maker)

func WithLogger(l *logging.Logger) Option {
	return func(m *Maker) {
		if l != nil {
			m.log = l
		}
	}
}

// WithReportOutput sets where the performance report goes; stdout by default.
func WithReportOutput(w io.Writer) Option {
	return func(m *Maker) {
		m.report = w
	}
}

// Maker renders a group of equally long series side by side into one movie.
// It owns deep copies of the maps it was given.
type Maker struct {
	fig    *plot.Figure
	series []*Series
	runID  string
	log    *logging.Logger
	report io.Writer
}

func NewMaker(series []Series, fig *plot.Figure, makeAxes bool, opts ...Option) (*Maker, error) {
	if len(series) == 0 {
		return nil, ErrNoSeries
	}
	if fig == nil {
		return nil, fmt.Errorf("figure is nil")
	}

	m := &Maker{
		fig:    fig,
		runID:  uuid.NewString(),
		log:    logging.Nop(),
		report: os.Stdout,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With("run", m.runID)

	owned := make([]*Series, len(series))
	for i, s := range series {
		if len(s.Maps) == 0 {
			return nil, fmt.Errorf("series %d: %w", i, ErrEmptySeries)
		}
		c, err := s.ownedCopy()
		if err != nil {
			return nil, fmt.Errorf("series %d: %w", i, err)
		}
		owned[i] = c
	}
	if err := checkLengths(owned); err != nil {
		return nil, err
	}

	for i, s := range owned {
		if makeAxes {
			ax, err := fig.AddSubplot(1, len(owned), i+1, s.Maps[0].Projection)
			if err != nil {
				return nil, fmt.Errorf("series %d: %w", i, err)
			}
			s.Axes = ax
			continue
		}
		if s.Axes == nil {
			return nil, fmt.Errorf("series %d: %w", i, ErrMissingAxes)
		}
	}

	m.series = owned
	m.log.Debugw("maker ready", "series", len(owned), "maps", owned[0].Len(), "make_axes", makeAxes)
	return m, nil
}

// Series returns the maker's own series, in subplot order.
func (m *Maker) Series() []*Series {
	return m.series
}

func (m *Maker) Figure() *plot.Figure {
	return m.fig
}

func (m *Maker) RunID() string {
	return m.runID
}

// MakeMovie consumes every pending map and writes one frame per map after
// the first: the first map of each series only initializes its axes.
func (m *Maker) MakeMovie(ctx context.Context, opts MovieOptions) error {
	opts = opts.withDefaults()
	start := time.Now()

	if err := checkLengths(m.series); err != nil {
		return err
	}
	if m.series[0].Pending() < 2 {
		return fmt.Errorf("%w: %d pending", ErrNoFrames, m.series[0].Pending())
	}

	// everything that can fail is checked before the first map is consumed
	w := opts.Writer
	if w == nil {
		var err error
		if w, err = animation.WriterFor(opts.OutPath, opts.FPS, opts.Codec); err != nil {
			return err
		}
	}
	for i, s := range m.series {
		first, _ := s.Peek()
		if err := plot.ValidateSettings(first.Plot); err != nil {
			return fmt.Errorf("series %d: %w", i, err)
		}
	}

	artists := make([]*plot.ImageArtist, len(m.series))
	for i, s := range m.series {
		first, _ := s.Next()
		im, err := s.Axes.Imshow(first)
		if err != nil {
			return fmt.Errorf("series %d: imshow: %w", i, err)
		}
		artists[i] = im
		s.callInit(m.fig, first)
	}

	nFrames := m.series[0].Pending()
	schedule := make([][]*sunmap.Map, nFrames)
	for f := range schedule {
		row := make([]*sunmap.Map, len(m.series))
		for i, s := range m.series {
			row[i], _ = s.Next()
		}
		schedule[f] = row
	}

	m.log.Infow("rendering movie", "out", opts.OutPath, "frames", nFrames, "series", len(m.series), "fps", opts.FPS, "dpi", opts.DPI)

	canvases := system.NewCanvasPool()
	anim := &animation.FuncAnimation{
		Figure:   m.fig,
		Frames:   nFrames,
		Canvases: canvases,
		Update: func(f int) error {
			for i, s := range m.series {
				mp := schedule[f][i]
				artists[i].SetArray(mp.Data)
				s.callUpdate(m.fig, mp)
			}
			m.log.Debugw("frame", "index", f+1, "of", nFrames)
			return nil
		},
	}
	if err := anim.Save(ctx, opts.OutPath, opts.DPI, w); err != nil {
		return fmt.Errorf("save movie: %w", err)
	}

	elapsed := time.Since(start)
	m.log.Infow("movie written", "out", opts.OutPath, "frames", nFrames, "elapsed", elapsed)
	if opts.ShowStats {
		m.printReport(opts, nFrames, elapsed, canvases.Stats())
	}
	return nil
}

func (m *Maker) printReport(opts MovieOptions, frames int, elapsed time.Duration, canvases system.CanvasStats) {
	fps := float64(frames) / elapsed.Seconds()
	fmt.Fprintf(m.report,
		"--- [PERFORMANCE REPORT] ---\n"+
			"Run: %s\n"+
			"Output: %s\n"+
			"Series: %d | Frames: %d\n"+
			"Total Time: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"Canvases: %d allocated, %d reused\n",
		m.runID, opts.OutPath, len(m.series), frames, elapsed.Seconds(), fps,
		canvases.Allocated, canvases.Reused(),
	)
	if st, err := system.CurrentProcessStats(); err == nil {
		fmt.Fprintf(m.report, "RSS: %.1f MiB | CPU: %.1f%% | System memory: %.1f%%\n",
			float64(st.RSS)/(1<<20), st.CPUPercent, st.SysUsedPct)
	} else {
		m.log.Debugw("process stats unavailable", "error", err)
	}
	fmt.Fprint(m.report, "----------------------------\n")
}
