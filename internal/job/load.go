package job

import (
	"context"
	"fmt"

	"github.com/ivlev/mapmovie/internal/logging"
	"github.com/ivlev/mapmovie/internal/movie"
	"github.com/ivlev/mapmovie/internal/source"
	"github.com/ivlev/mapmovie/internal/timeslice"
)

// LoadSeries opens every series of the job and loads its maps with the
// job's plot settings applied.
func (j *Job) LoadSeries(ctx context.Context, workers int, log *logging.Logger) ([]movie.Series, error) {
	var windows []timeslice.Window
	if j.Window != nil {
		var err error
		if windows, err = j.Windows(); err != nil {
			return nil, err
		}
	}

	out := make([]movie.Series, len(j.Series))
	for i, s := range j.Series {
		src, err := source.Open(s.Kind, s.Path, s.SourceOptions(windows))
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", s.Name, err)
		}
		maps, err := source.LoadAll(ctx, src, workers)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", s.Name, err)
		}

		settings := s.PlotSettings()
		for _, m := range maps {
			m.Plot = settings
		}
		log.Infow("series loaded", "name", s.Name, "kind", s.Kind, "maps", len(maps))
		out[i] = movie.Series{Name: s.Name, Maps: maps}
	}
	return out, nil
}
