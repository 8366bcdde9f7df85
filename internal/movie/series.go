package movie

import (
	"fmt"

	"github.com/ivlev/mapmovie/internal/plot"
	"github.com/ivlev/mapmovie/internal/sunmap"
)

// FrameFunc is called with the shared figure, the series' axes and the
// current map. A nil FrameFunc is skipped.
type FrameFunc func(fig *plot.Figure, ax *plot.Axes, m *sunmap.Map)

// Series is one synchronized sequence of maps shown in its own axes.
// Maps are consumed through a cursor; the slice itself is never modified.
type Series struct {
	Name   string
	Maps   []*sunmap.Map
	Init   FrameFunc
	Update FrameFunc
	Axes   *plot.Axes

	cursor int
}

// Len is the total number of maps, rendered or not.
func (s *Series) Len() int {
	return len(s.Maps)
}

// Pending is the number of maps not yet rendered.
func (s *Series) Pending() int {
	return len(s.Maps) - s.cursor
}

// Next returns the oldest unrendered map and marks it rendered.
func (s *Series) Next() (*sunmap.Map, bool) {
	if s.cursor >= len(s.Maps) {
		return nil, false
	}
	m := s.Maps[s.cursor]
	s.cursor++
	return m, true
}

// Peek returns the oldest unrendered map without consuming it.
func (s *Series) Peek() (*sunmap.Map, bool) {
	if s.cursor >= len(s.Maps) {
		return nil, false
	}
	return s.Maps[s.cursor], true
}

// Rewind makes every map pending again.
func (s *Series) Rewind() {
	s.cursor = 0
}

func (s *Series) callInit(fig *plot.Figure, m *sunmap.Map) {
	if s.Init != nil {
		s.Init(fig, s.Axes, m)
	}
}

func (s *Series) callUpdate(fig *plot.Figure, m *sunmap.Map) {
	if s.Update != nil {
		s.Update(fig, s.Axes, m)
	}
}

func (s *Series) String() string {
	name := s.Name
	if name == "" {
		name = "series"
	}
	return fmt.Sprintf("%s(%d/%d pending)", name, s.Pending(), s.Len())
}

// ownedCopy returns a series holding deep copies of s.Maps. Callbacks and
// axes are shared.
func (s *Series) ownedCopy() (*Series, error) {
	c := &Series{Name: s.Name, Init: s.Init, Update: s.Update, Axes: s.Axes}
	c.Maps = make([]*sunmap.Map, len(s.Maps))
	for i, m := range s.Maps {
		if m == nil {
			return nil, fmt.Errorf("map %d is nil", i)
		}
		mc, err := m.Clone()
		if err != nil {
			return nil, fmt.Errorf("map %d: %w", i, err)
		}
		c.Maps[i] = mc
	}
	return c, nil
}

// checkLengths verifies that every series has as many pending maps as
// series 0.
func checkLengths(series []*Series) error {
	if len(series) == 0 {
		return ErrNoSeries
	}
	want := series[0].Pending()
	for i, s := range series[1:] {
		if got := s.Pending(); got != want {
			return &SeriesLengthMismatchError{Index: i + 1, Want: want, Got: got}
		}
	}
	return nil
}
