package movie

import (
	"errors"
	"fmt"
)

var (
	ErrNoSeries    = errors.New("no series given")
	ErrEmptySeries = errors.New("series has no maps")
	ErrMissingAxes = errors.New("series has no axes")
	// ErrNoFrames is returned when the series hold fewer than two pending
	// maps: the first one only initializes the axes.
	ErrNoFrames = errors.New("not enough pending maps to animate")
	// ErrSeriesLengthMismatch is matched by every *SeriesLengthMismatchError.
	ErrSeriesLengthMismatch = errors.New("series length mismatch")
)

// SeriesLengthMismatchError reports the first series whose length differs
// from series 0.
type SeriesLengthMismatchError struct {
	Index int // offending series
	Want  int // length of series 0
	Got   int
}

func (e *SeriesLengthMismatchError) Error() string {
	return fmt.Sprintf("series %d has %d maps, series 0 has %d", e.Index, e.Got, e.Want)
}

func (e *SeriesLengthMismatchError) Is(target error) bool {
	return target == ErrSeriesLengthMismatch
}
