package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/mapmovie/internal/animation"
	"github.com/ivlev/mapmovie/internal/config"
	"github.com/ivlev/mapmovie/internal/job"
	"github.com/ivlev/mapmovie/internal/movie"
	"github.com/ivlev/mapmovie/internal/plot"
	"github.com/ivlev/mapmovie/internal/source"
	"github.com/ivlev/mapmovie/internal/sunmap"
	"github.com/ivlev/mapmovie/internal/system"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render map sequences side by side into a movie",
	Long: `Render one or more map sequences into a single movie, one subplot per
sequence. Sequences come from a job file or from --input paths (image
directories or PDF files); all of them must have the same number of frames.

The output format follows the extension: .gif is written natively, .mp4, .avi,
.mov and .mkv go through ffmpeg.

Examples:
  mapmovie render --job job.yaml
  mapmovie render -i aia171/ -i aia193/ -o movie.gif --cmap sdoaia171 --norm log
  mapmovie render -i frames/ -o movie.mp4 --fps 24 --dpi 120 --stats`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("job", "j", "", "Job file (YAML)")
	renderCmd.Flags().
		StringArrayP("input", "i", nil, "Image directory or PDF file, one per series")
	renderCmd.Flags().StringP("output", "o", "", "Output movie path (or directory)")
	renderCmd.Flags().Float64("fps", 0, "Frames per second")
	renderCmd.Flags().Int("dpi", 0, "Dots per inch of the rendered figure")
	renderCmd.Flags().String("codec", "", "ffmpeg video codec for non-gif output")
	renderCmd.Flags().String("cmap", "", "Colormap: "+strings.Join(plot.ColorMapNames(), ", "))
	renderCmd.Flags().String("norm", "", "Normalization (linear, sqrt, log)")
	renderCmd.Flags().Float64("scale", 0, "Plate scale in arcsec per pixel (0 = pixel axes)")
	renderCmd.Flags().Int("workers", 0, "Parallel frame loaders")
	renderCmd.Flags().Bool("stats", false, "Print a performance report")

	renderCmd.MarkFlagsMutuallyExclusive("job", "input")
	renderCmd.MarkFlagsOneRequired("job", "input")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := settings
	jobPath, _ := cmd.Flags().GetString("job")
	inputs, _ := cmd.Flags().GetStringArray("input")

	var (
		j   *job.Job
		err error
	)
	if jobPath != "" {
		if j, err = job.ReadJob(jobPath); err != nil {
			return err
		}
		applyJobMovie(&cfg, j.Movie)
	} else {
		if j, err = jobFromInputs(cmd, inputs); err != nil {
			return err
		}
	}
	applyRenderFlags(cmd, &cfg, inputs)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if !system.HasExt(cfg.OutPath, ".gif") {
		if _, err := animation.WriterFor(cfg.OutPath, cfg.FPS, cfg.Codec); err != nil {
			return err
		}
		if !system.HasEncoder(cfg.Codec) {
			return fmt.Errorf("ffmpeg with the %s encoder is required for %s", cfg.Codec, filepath.Ext(cfg.OutPath))
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return render(ctx, cfg, j, cmd.OutOrStdout())
}

func render(ctx context.Context, cfg config.Config, j *job.Job, out io.Writer) error {
	logger.Infow("Loading series", "count", len(j.Series), "workers", cfg.Workers)
	series, err := j.LoadSeries(ctx, cfg.Workers, logger)
	if err != nil {
		return err
	}
	for i := range series {
		series[i].Update = updateTitle
	}

	width, height := j.FigureSize(cfg.ColWidth, cfg.FigHeight)
	fig := plot.NewFigure(width, height)
	maker, err := movie.NewMaker(series, fig, true, movie.WithLogger(logger))
	if err != nil {
		return err
	}

	if err := maker.MakeMovie(ctx, movie.MovieOptions{
		FPS:       cfg.FPS,
		DPI:       cfg.DPI,
		OutPath:   cfg.OutPath,
		Codec:     cfg.Codec,
		ShowStats: cfg.ShowStats,
	}); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	absOutput, _ := filepath.Abs(cfg.OutPath)
	fmt.Fprintf(out, "Movie written: %s\n", absOutput)
	return nil
}

func updateTitle(_ *plot.Figure, ax *plot.Axes, m *sunmap.Map) {
	if title := m.Title(); title != "" {
		ax.SetTitle(title)
	}
}

func jobFromInputs(cmd *cobra.Command, inputs []string) (*job.Job, error) {
	cmap, _ := cmd.Flags().GetString("cmap")
	norm, _ := cmd.Flags().GetString("norm")
	scale, _ := cmd.Flags().GetFloat64("scale")

	j := &job.Job{Version: job.CurrentVersion}
	for _, in := range inputs {
		kind := source.KindImages
		if system.HasExt(in, ".pdf") {
			kind = source.KindPDF
		}
		j.Series = append(j.Series, job.Series{
			Name:  filepath.Base(filepath.Clean(in)),
			Kind:  kind,
			Path:  in,
			Cmap:  cmap,
			Norm:  norm,
			Scale: scale,
		})
	}
	if err := j.Validate(); err != nil {
		return nil, err
	}
	return j, nil
}

func applyJobMovie(cfg *config.Config, m job.Movie) {
	if m.FPS > 0 {
		cfg.FPS = m.FPS
	}
	if m.DPI > 0 {
		cfg.DPI = m.DPI
	}
	if m.Out != "" {
		cfg.OutPath = m.Out
	}
	if m.Codec != "" {
		cfg.Codec = m.Codec
	}
	if m.Stats {
		cfg.ShowStats = true
	}
}

// applyRenderFlags lets explicitly set flags win over job and environment.
func applyRenderFlags(cmd *cobra.Command, cfg *config.Config, inputs []string) {
	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.FPS, _ = flags.GetFloat64("fps")
	}
	if flags.Changed("dpi") {
		cfg.DPI, _ = flags.GetInt("dpi")
	}
	if flags.Changed("codec") {
		cfg.Codec, _ = flags.GetString("codec")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("stats") {
		cfg.ShowStats, _ = flags.GetBool("stats")
	}
	if flags.Changed("output") {
		cfg.OutPath, _ = flags.GetString("output")
	}

	// a directory as output gets a movie named after the newest input image
	if fi, err := os.Stat(cfg.OutPath); err == nil && fi.IsDir() {
		name := "movie"
		if len(inputs) > 0 {
			if latest, err := system.FindLatest(inputs[0], ".png", ".jpg", ".jpeg"); err == nil {
				name = strings.TrimSuffix(filepath.Base(latest), filepath.Ext(latest))
			}
		}
		cfg.OutPath = filepath.Join(cfg.OutPath, name+".gif")
	}
}
