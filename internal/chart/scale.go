package chart

import (
	"math"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/series"
)

// Scale maps (index, value) pairs of a sorted series to CSS pixels.
// Points are spaced uniformly by index, not by elapsed time.
type Scale struct {
	N    int
	MinV float64
	MaxV float64
	Plot Rect
}

// ValueBand returns the padded value range for a series with the given
// extremes. A flat series gets a non-zero band.
func ValueBand(minVal, maxVal float64) (minV, maxV float64) {
	span := maxVal - minVal
	var pad float64
	if span == 0 {
		pad = math.Max(1, maxVal*0.01)
	} else {
		pad = span * 0.06
	}
	return minVal - pad, maxVal + pad
}

// NewScale builds the mapping for an already sorted series.
func NewScale(sorted domain.Series, vp Viewport) Scale {
	sc := Scale{N: len(sorted), Plot: vp.PlotRect()}
	if minVal, maxVal, ok := series.Bounds(sorted); ok {
		sc.MinV, sc.MaxV = ValueBand(minVal, maxVal)
	}
	return sc
}

// ToXY returns the pixel position of the index-th point with value v.
func (s Scale) ToXY(index int, v float64) (x, y float64) {
	if s.N <= 1 {
		x = s.Plot.X + s.Plot.W/2
	} else {
		x = s.Plot.X + s.Plot.W*float64(index)/float64(s.N-1)
	}

	t := 0.5
	if s.MaxV != s.MinV {
		t = clamp((v-s.MinV)/(s.MaxV-s.MinV), 0, 1)
	}
	y = s.Plot.Y + s.Plot.H - t*s.Plot.H
	return x, y
}

// Points maps every point of sorted.
func (s Scale) Points(sorted domain.Series) []Point {
	pts := make([]Point, len(sorted))
	for i, p := range sorted {
		x, y := s.ToXY(i, p.Value)
		pts[i] = Point{X: x, Y: y}
	}
	return pts
}

// IndexAt returns the nearest index for a horizontal pixel position,
// rounding half up. n must be positive.
func IndexAt(mx float64, n int, plot Rect) int {
	t := (mx - plot.X) / math.Max(1, plot.W)
	f := math.Floor(t*float64(n-1) + 0.5)
	switch {
	case math.IsNaN(f) || f < 0:
		return 0
	case f > float64(n-1):
		return n - 1
	}
	return int(f)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
