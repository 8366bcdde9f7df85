package photon

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ivlev/mapmovie/internal/sunmap"
	"github.com/ivlev/mapmovie/internal/timeslice"
)

// Event is a single detected photon.
type Event struct {
	Time   time.Time
	X, Y   float64
	Energy float64 // keV, zero if the list has no energy column
}

// ReadCSV reads a time,x,y[,energy] photon list with RFC 3339 times. The
// header row is required; column order follows it.
func ReadCSV(r io.Reader) ([]Event, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("photon list is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, need := range []string{"time", "x", "y"} {
		if _, ok := cols[need]; !ok {
			return nil, fmt.Errorf("photon list has no %q column", need)
		}
	}
	energyCol, hasEnergy := cols["energy"]

	var events []Event
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read photon list: %w", err)
		}
		line, _ := cr.FieldPos(0)

		var ev Event
		if ev.Time, err = time.Parse(time.RFC3339Nano, rec[cols["time"]]); err != nil {
			return nil, fmt.Errorf("line %d: time: %w", line, err)
		}
		if ev.X, err = strconv.ParseFloat(rec[cols["x"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: x: %w", line, err)
		}
		if ev.Y, err = strconv.ParseFloat(rec[cols["y"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: y: %w", line, err)
		}
		if hasEnergy && rec[energyCol] != "" {
			if ev.Energy, err = strconv.ParseFloat(rec[energyCol], 64); err != nil {
				return nil, fmt.Errorf("line %d: energy: %w", line, err)
			}
		}
		events = append(events, ev)
	}
	return events, nil
}

// Binner accumulates photon counts on a regular grid covering
// [XMin, XMax) x [YMin, YMax).
type Binner struct {
	Width, Height int
	XMin, XMax    float64
	YMin, YMax    float64

	Instrument  string
	Measurement string
}

func (b Binner) validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("bin grid must be positive, got %dx%d", b.Width, b.Height)
	}
	if !(b.XMax > b.XMin) || !(b.YMax > b.YMin) {
		return fmt.Errorf("empty extent [%g, %g] x [%g, %g]", b.XMin, b.XMax, b.YMin, b.YMax)
	}
	return nil
}

// Projection places bin centers at their world coordinates.
func (b Binner) Projection() sunmap.Projection {
	dx := (b.XMax - b.XMin) / float64(b.Width)
	dy := (b.YMax - b.YMin) / float64(b.Height)
	return sunmap.Projection{
		Frame:  "helioprojective",
		CUnit1: "arcsec",
		CUnit2: "arcsec",
		CRVal1: b.XMin + dx/2,
		CRVal2: b.YMin + dy/2,
		CDelt1: dx,
		CDelt2: dy,
	}
}

func (b Binner) cell(x, y float64) (int, int, bool) {
	if x < b.XMin || x >= b.XMax || y < b.YMin || y >= b.YMax {
		return 0, 0, false
	}
	cx := int(math.Floor((x - b.XMin) / (b.XMax - b.XMin) * float64(b.Width)))
	cy := int(math.Floor((y - b.YMin) / (b.YMax - b.YMin) * float64(b.Height)))
	return min(cx, b.Width-1), min(cy, b.Height-1), true
}

// Bin returns one count map per window. An event lands in every window
// that covers its time; events outside the extent are dropped.
func (b Binner) Bin(events []Event, windows []timeslice.Window) ([]*sunmap.Map, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	proj := b.Projection()
	maps := make([]*sunmap.Map, len(windows))
	for i, w := range windows {
		maps[i] = sunmap.New(sunmap.NewGrid(b.Width, b.Height), sunmap.Meta{
			Observed:    w.Start,
			Instrument:  b.Instrument,
			Measurement: b.Measurement,
			Header: map[string]string{
				"DATE-BEG": w.Start.UTC().Format(time.RFC3339),
				"DATE-END": w.End.UTC().Format(time.RFC3339),
				"EXPTIME":  strconv.FormatFloat(w.Duration().Seconds(), 'f', -1, 64),
			},
		}, proj)
	}

	for _, ev := range events {
		cx, cy, ok := b.cell(ev.X, ev.Y)
		if !ok {
			continue
		}
		for _, wi := range timeslice.Covering(windows, ev.Time) {
			g := maps[wi].Data
			g.Set(cx, cy, g.At(cx, cy)+1)
		}
	}
	return maps, nil
}
