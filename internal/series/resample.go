package series

import (
	"adam-dashboard/internal/domain"
)

// Cadence describes a fixed-step output grid ending at the last input time.
// StepCount is inclusive, so StepCount+1 points are produced.
type Cadence struct {
	StepSeconds int64
	StepCount   int
}

// LastHour is 61 one-minute samples covering the final hour of a series.
var LastHour = Cadence{StepSeconds: 60, StepCount: 60}

// SynthesizeLastHour resamples s onto the LastHour cadence.
func SynthesizeLastHour(s domain.Series) domain.Series {
	return Resample(s, LastHour)
}

// Resample linearly interpolates s onto c. Targets beyond the input span
// saturate at the nearest endpoint value; nothing is extrapolated.
// An empty input yields an empty series.
func Resample(s domain.Series, c Cadence) domain.Series {
	if len(s) == 0 || c.StepCount < 0 || c.StepSeconds <= 0 {
		return domain.Series{}
	}
	src := Sorted(s)
	last := src[len(src)-1].Time
	start := last - c.StepSeconds*int64(c.StepCount)

	out := make(domain.Series, 0, c.StepCount+1)
	cursor := 0
	for i := 0; i <= c.StepCount; i++ {
		t := start + int64(i)*c.StepSeconds
		cursor = advance(src, cursor, t)
		out = append(out, domain.SeriesPoint{Time: t, Value: interpolate(src, cursor, t)})
	}
	return out
}

// advance moves the cursor forward until src[cursor+1] is at or after t,
// stopping at the last adjacent pair. It never moves backward.
func advance(src domain.Series, cursor int, t int64) int {
	for cursor < len(src)-2 && src[cursor+1].Time < t {
		cursor++
	}
	return cursor
}

func interpolate(src domain.Series, cursor int, t int64) float64 {
	a := src[cursor]
	b := a
	if cursor+1 < len(src) {
		b = src[cursor+1]
	}
	if a.Time == b.Time {
		return a.Value
	}
	ratio := clamp01(float64(t-a.Time) / float64(b.Time-a.Time))
	return a.Value + (b.Value-a.Value)*ratio
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
