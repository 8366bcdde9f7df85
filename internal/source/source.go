package source

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/mapmovie/internal/sunmap"
)

// Source is an indexed sequence of maps.
type Source interface {
	Count() int
	Load(index int) (*sunmap.Map, error)
	Close() error
}

// Kinds understood by Open.
const (
	KindImages  = "images"
	KindPDF     = "pdf"
	KindPhotons = "photons"
)

// Options carry the per-source settings Open passes on.
type Options struct {
	Instrument  string
	Measurement string
	Scale       float64 // arcsec per pixel, 0 for a pixel projection
	DPI         int     // pdf only
	Photons     *PhotonOptions
}

// Open builds the source for kind at path.
func Open(kind, path string, opts Options) (Source, error) {
	switch kind {
	case KindImages:
		src, err := NewImageSource(path)
		if err != nil {
			return nil, err
		}
		src.Instrument, src.Measurement, src.Scale = opts.Instrument, opts.Measurement, opts.Scale
		return src, nil
	case KindPDF:
		src, err := NewFitzPDFSource(path, opts.DPI)
		if err != nil {
			return nil, err
		}
		src.Instrument = opts.Instrument
		return src, nil
	case KindPhotons:
		if opts.Photons == nil {
			return nil, fmt.Errorf("photon source %s needs binning options", path)
		}
		return NewPhotonSource(path, *opts.Photons)
	default:
		return nil, fmt.Errorf("unknown source kind %q", kind)
	}
}

// LoadAll loads every map of src with up to workers loads in flight. The
// result keeps source order.
func LoadAll(ctx context.Context, src Source, workers int) ([]*sunmap.Map, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	maps := make([]*sunmap.Map, src.Count())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range maps {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := src.Load(i)
			if err != nil {
				return fmt.Errorf("load frame %d: %w", i, err)
			}
			maps[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return maps, nil
}
