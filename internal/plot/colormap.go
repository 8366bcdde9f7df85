package plot

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var ErrUnknownColorMap = errors.New("unknown colormap")

const lutSize = 256

type stop struct {
	pos float64
	hex string
}

// ColorMap is a 256-entry look-up table from normalized values to colours.
type ColorMap struct {
	Name string
	lut  [lutSize]color.RGBA
	// Bad is used for NaN samples.
	Bad color.RGBA
}

var colorMapStops = map[string][]stop{
	"gray": {{0, "#000000"}, {1, "#ffffff"}},
	"hot":  {{0, "#0a0000"}, {0.365, "#ff0000"}, {0.746, "#ffff00"}, {1, "#ffffff"}},
	// SDO/AIA-like channel tables
	"sdoaia171": {{0, "#000000"}, {0.5, "#c08d00"}, {0.85, "#ffe08a"}, {1, "#ffffff"}},
	"sdoaia193": {{0, "#000000"}, {0.45, "#b45a27"}, {0.8, "#f2c79a"}, {1, "#ffffff"}},
	"sdoaia304": {{0, "#000000"}, {0.35, "#8a0000"}, {0.7, "#ff8a1f"}, {1, "#ffffff"}},
	"viridis":   {{0, "#440154"}, {0.25, "#3b528b"}, {0.5, "#21918c"}, {0.75, "#5ec962"}, {1, "#fde725"}},
}

var colorMaps = map[string]*ColorMap{}

func init() {
	for name, stops := range colorMapStops {
		colorMaps[name] = buildColorMap(name, stops)
	}
}

func buildColorMap(name string, stops []stop) *ColorMap {
	cols := make([]colorful.Color, len(stops))
	for i, s := range stops {
		c, err := colorful.Hex(s.hex)
		if err != nil {
			panic(fmt.Sprintf("colormap %s: %v", name, err))
		}
		cols[i] = c
	}

	cm := &ColorMap{Name: name, Bad: color.RGBA{A: 0xff}}
	for i := 0; i < lutSize; i++ {
		t := float64(i) / (lutSize - 1)
		j := 0
		for j < len(stops)-2 && t > stops[j+1].pos {
			j++
		}
		span := stops[j+1].pos - stops[j].pos
		f := 0.0
		if span > 0 {
			f = (t - stops[j].pos) / span
		}
		r, g, b := cols[j].BlendLab(cols[j+1], f).Clamped().RGB255()
		cm.lut[i] = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	return cm
}

// ColorMapByName looks a colormap up; an empty name means "gray".
func ColorMapByName(name string) (*ColorMap, error) {
	if name == "" {
		name = "gray"
	}
	cm, ok := colorMaps[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownColorMap, name, strings.Join(ColorMapNames(), ", "))
	}
	return cm, nil
}

func ColorMapNames() []string {
	names := make([]string, 0, len(colorMaps))
	for name := range colorMaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// At maps t in [0, 1] to a colour; values outside are clipped.
func (c *ColorMap) At(t float64) color.RGBA {
	if t != t {
		return c.Bad
	}
	if t <= 0 {
		return c.lut[0]
	}
	if t >= 1 {
		return c.lut[lutSize-1]
	}
	return c.lut[int(t*(lutSize-1)+0.5)]
}
