package timeslice

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 14, 17, 0, 0, 0, time.UTC)

func at(seconds int) time.Time {
	return t0.Add(time.Duration(seconds) * time.Second)
}

func Test_MakeTimeSlices_Examples(t *testing.T) {
	tests := []struct {
		name      string
		end       int
		step      time.Duration
		exposure  time.Duration
		wantCount int
		wantLast  Window
	}{
		{
			"step divides the interval evenly",
			100, 10 * time.Second, 10 * time.Second,
			10, Window{at(90), at(100)},
		},
		{
			"misaligned end gets a boundary-correction window",
			95, 10 * time.Second, 10 * time.Second,
			10, Window{at(90), at(95)},
		},
		{
			"exposure equal to the interval yields a single window",
			10, 10 * time.Second, 10 * time.Second,
			1, Window{at(0), at(10)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows, err := MakeTimeSlices(t0, at(tt.end), tt.step, tt.exposure)
			require.NoError(t, err)
			assert.Len(t, windows, tt.wantCount)
			assert.True(t, windows[0].Start.Equal(t0))
			last := windows[len(windows)-1]
			assert.True(t, last.Start.Equal(tt.wantLast.Start), "last start %s", last.Start)
			assert.True(t, last.End.Equal(tt.wantLast.End), "last end %s", last.End)
		})
	}
}

func Test_MakeTimeSlices_MisalignedNominalWindows(t *testing.T) {
	windows, err := MakeTimeSlices(t0, at(95), 10*time.Second, 10*time.Second)
	require.NoError(t, err)

	for i, w := range windows[:9] {
		assert.True(t, w.Start.Equal(at(10*i)), "window %d", i)
		assert.Equal(t, 10*time.Second, w.Duration(), "window %d", i)
	}
	assert.Equal(t, 5*time.Second, windows[9].Duration())
}

func Test_MakeTimeSlices_StepBoundIsInclusive(t *testing.T) {
	// end-exposure-start = 90s, which 30s divides: the start at 90s must be kept
	windows, err := MakeTimeSlices(t0, at(100), 30*time.Second, 10*time.Second)
	require.NoError(t, err)
	require.Len(t, windows, 4)
	assert.True(t, windows[3].Start.Equal(at(90)))
	assert.True(t, windows[3].End.Equal(at(100)))

	// 7s does not divide 85s: last nominal start is 84s (<= 85s), then correction
	windows, err = MakeTimeSlices(t0, at(95), 7*time.Second, 10*time.Second)
	require.NoError(t, err)
	require.Len(t, windows, 14)
	assert.True(t, windows[12].Start.Equal(at(84)))
	assert.True(t, windows[13].Start.Equal(at(91)))
	assert.True(t, windows[13].End.Equal(at(95)))
}

func Test_MakeTimeSlices_Properties(t *testing.T) {
	cases := []struct {
		end            int
		step, exposure int
	}{
		{100, 10, 10},
		{95, 10, 10},
		{100, 5, 20},
		{97, 3, 11},
		{60, 25, 10},
		{100, 40, 10},
		{3600, 60, 120},
	}
	for _, c := range cases {
		step := time.Duration(c.step) * time.Second
		exposure := time.Duration(c.exposure) * time.Second
		windows, err := MakeTimeSlices(t0, at(c.end), step, exposure)
		require.NoError(t, err)

		assert.True(t, windows[0].Start.Equal(t0))
		assert.True(t, windows[len(windows)-1].End.Equal(at(c.end)))

		exact := (c.end-c.exposure)%c.step == 0
		nominal := windows
		if !exact {
			nominal = windows[:len(windows)-1]
		}
		assert.Equal(t, (c.end-c.exposure)/c.step+1, len(nominal), "case %+v", c)
		for i, w := range nominal {
			assert.Equal(t, exposure, w.Duration(), "case %+v window %d", c, i)
			if i > 0 {
				assert.Equal(t, step, w.Start.Sub(nominal[i-1].Start), "case %+v window %d", c, i)
			}
		}
		for i, w := range windows {
			assert.True(t, w.Start.Before(w.End), "case %+v window %d is empty", c, i)
		}
	}
}

func Test_MakeTimeSlices_IsDeterministic(t *testing.T) {
	a, err := MakeTimeSlices(t0, at(97), 3*time.Second, 11*time.Second)
	require.NoError(t, err)
	b, err := MakeTimeSlices(t0, at(97), 3*time.Second, 11*time.Second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func Test_MakeTimeSlices_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		end      time.Time
		step     time.Duration
		exposure time.Duration
	}{
		{"zero step", at(100), 0, 10 * time.Second},
		{"negative step", at(100), -time.Second, 10 * time.Second},
		{"zero exposure", at(100), 10 * time.Second, 0},
		{"end before start", at(-10), 10 * time.Second, 10 * time.Second},
		{"empty interval", t0, 10 * time.Second, 10 * time.Second},
		{"exposure longer than interval", at(100), 10 * time.Second, 101 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows, err := MakeTimeSlices(t0, tt.end, tt.step, tt.exposure)
			assert.Nil(t, windows)
			assert.ErrorIs(t, err, ErrInvalidWindow)

			var iwe *InvalidWindowError
			require.True(t, errors.As(err, &iwe))
			assert.NotEmpty(t, iwe.Reason)
		})
	}
}

func Test_Covering(t *testing.T) {
	windows, err := MakeTimeSlices(t0, at(30), 5*time.Second, 10*time.Second)
	require.NoError(t, err)
	// [0,10) [5,15) [10,20) [15,25) [20,30)

	assert.Equal(t, []int{0}, Covering(windows, at(0)))
	assert.Equal(t, []int{0, 1}, Covering(windows, at(7)))
	assert.Equal(t, []int{1, 2}, Covering(windows, at(10)))
	assert.Equal(t, []int{4}, Covering(windows, at(30)))
	assert.Empty(t, Covering(windows, at(31)))
}

func Test_Span(t *testing.T) {
	_, ok := Span(nil)
	assert.False(t, ok)

	windows, err := MakeTimeSlices(t0, at(95), 10*time.Second, 10*time.Second)
	require.NoError(t, err)
	span, ok := Span(windows)
	require.True(t, ok)
	assert.True(t, span.Start.Equal(t0))
	assert.True(t, span.End.Equal(at(95)))
}
