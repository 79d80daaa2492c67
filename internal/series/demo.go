package series

import (
	"math"
	"time"

	"adam-dashboard/internal/domain"
)

// DemoParams controls the synthetic waveform.
type DemoParams struct {
	Base  float64 // starting level
	Trend float64 // total drift added across the series
}

// DefaultDemo matches the dashboard's placeholder portfolio.
var DefaultDemo = DemoParams{Base: 10000, Trend: 400}

// Demo generates a deterministic series for r ending at end:
// value = base + sin(i*0.22)*120 + sin(i*0.07)*180 + trend*i/n.
func Demo(r domain.Range, end time.Time, p DemoParams) domain.Series {
	n := r.PointCount()
	step := int64(r.Step() / time.Second)
	last := end.Unix()
	first := last - step*int64(n-1)

	out := make(domain.Series, n)
	for i := 0; i < n; i++ {
		fi := float64(i)
		v := p.Base +
			math.Sin(fi*0.22)*120 +
			math.Sin(fi*0.07)*180 +
			p.Trend*fi/float64(n)
		out[i] = domain.SeriesPoint{Time: first + int64(i)*step, Value: v}
	}
	return out
}
