package plot

import (
	"fmt"
	"math"
	"strings"

	"github.com/ivlev/mapmovie/internal/sunmap"
)

type NormKind string

const (
	NormLinear NormKind = "linear"
	NormSqrt   NormKind = "sqrt"
	NormLog    NormKind = "log"
)

func ParseNormKind(s string) (NormKind, error) {
	switch k := NormKind(strings.ToLower(s)); k {
	case "":
		return NormLinear, nil
	case NormLinear, NormSqrt, NormLog:
		return k, nil
	default:
		return "", fmt.Errorf("unknown norm %q: use linear, sqrt or log", s)
	}
}

// Norm maps data values onto [0, 1].
type Norm struct {
	Kind       NormKind
	VMin, VMax float64
}

// AutoNorm fits VMin/VMax to the finite range of g. For log norms VMin is
// raised to the smallest positive sample.
func AutoNorm(kind NormKind, g sunmap.Grid) Norm {
	n := Norm{Kind: kind, VMin: 0, VMax: 1}
	lo, hi, ok := g.MinMax()
	if !ok {
		return n
	}
	if kind == NormLog && lo <= 0 {
		lo = math.Inf(1)
		for _, v := range g.Values {
			if v > 0 && v < lo {
				lo = v
			}
		}
		if math.IsInf(lo, 1) {
			lo = 1
		}
		if hi < lo {
			hi = lo
		}
	}
	n.VMin, n.VMax = lo, hi
	return n
}

// Scale returns the normalized value, NaN for NaN input.
func (n Norm) Scale(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	if n.VMax <= n.VMin {
		return 0
	}
	var t float64
	switch n.Kind {
	case NormLog:
		if v <= 0 {
			return 0
		}
		lo := math.Log10(math.Max(n.VMin, math.SmallestNonzeroFloat64))
		t = (math.Log10(v) - lo) / (math.Log10(n.VMax) - lo)
	case NormSqrt:
		t = math.Sqrt(math.Max(0, (v-n.VMin)/(n.VMax-n.VMin)))
	default:
		t = (v - n.VMin) / (n.VMax - n.VMin)
	}
	return math.Max(0, math.Min(1, t))
}
