package timeslice

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWindow is matched by every *InvalidWindowError.
var ErrInvalidWindow = errors.New("invalid time window")

// InvalidWindowError describes why a set of window parameters was rejected.
type InvalidWindowError struct {
	Start, End     time.Time
	Step, Exposure time.Duration
	Reason         string
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("invalid time window [%s, %s] step=%s exposure=%s: %s",
		e.Start.Format(time.RFC3339Nano), e.End.Format(time.RFC3339Nano), e.Step, e.Exposure, e.Reason)
}

func (e *InvalidWindowError) Is(target error) bool {
	return target == ErrInvalidWindow
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time `yaml:"start"`
	End   time.Time `yaml:"end"`
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Contains reports whether t falls in [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.Start.Format(time.RFC3339Nano), w.End.Format(time.RFC3339Nano))
}

// MakeTimeSlices chunks [start, end] into windows of length exposure whose
// starts are step apart. The last window is corrected so that it always
// ends exactly at end.
func MakeTimeSlices(start, end time.Time, step, exposure time.Duration) ([]Window, error) {
	if err := validate(start, end, step, exposure); err != nil {
		return nil, err
	}

	// Шаг включает границу end-exposure
	n := int64(end.Sub(start)-exposure) / int64(step)
	windows := make([]Window, 0, n+2)
	for i := int64(0); i <= n; i++ {
		s := start.Add(time.Duration(i) * step)
		windows = append(windows, Window{Start: s, End: s.Add(exposure)})
	}

	last := windows[len(windows)-1]
	if !last.End.Equal(end) {
		s := last.Start.Add(step)
		if !s.Before(end) {
			// cadence with gaps: the next nominal start is already past end
			s = last.End
		}
		windows = append(windows, Window{Start: s, End: end})
	}

	return windows, nil
}

func validate(start, end time.Time, step, exposure time.Duration) error {
	fail := func(reason string) error {
		return &InvalidWindowError{Start: start, End: end, Step: step, Exposure: exposure, Reason: reason}
	}
	switch {
	case step <= 0:
		return fail("time step must be positive")
	case exposure <= 0:
		return fail("exposure must be positive")
	case !end.After(start):
		return fail("end must be after start")
	case exposure > end.Sub(start):
		return fail("exposure is longer than the interval")
	}
	return nil
}

// Covering returns the indices of all windows containing t. The final
// window also contains its own end instant.
func Covering(windows []Window, t time.Time) []int {
	var idx []int
	for i, w := range windows {
		if w.Contains(t) || (i == len(windows)-1 && t.Equal(w.End)) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Span returns the interval covered by windows.
func Span(windows []Window) (Window, bool) {
	if len(windows) == 0 {
		return Window{}, false
	}
	span := windows[0]
	for _, w := range windows[1:] {
		if w.Start.Before(span.Start) {
			span.Start = w.Start
		}
		if w.End.After(span.End) {
			span.End = w.End
		}
	}
	return span, true
}
