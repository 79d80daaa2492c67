// Package series holds pure transformations over chart series: sorting,
// fixed-cadence resampling, summary reduction and demo generation.
package series

import (
	"sort"

	"adam-dashboard/internal/domain"
)

// Sorted returns a copy of s ordered by ascending time. Points sharing a
// timestamp keep their input order. The caller's slice is never modified.
func Sorted(s domain.Series) domain.Series {
	out := make(domain.Series, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})
	return out
}

// Bounds returns the min and max value. ok is false for an empty series.
func Bounds(s domain.Series) (minVal, maxVal float64, ok bool) {
	if len(s) == 0 {
		return 0, 0, false
	}
	minVal, maxVal = s[0].Value, s[0].Value
	for _, p := range s[1:] {
		if p.Value < minVal {
			minVal = p.Value
		}
		if p.Value > maxVal {
			maxVal = p.Value
		}
	}
	return minVal, maxVal, true
}

// Window keeps points with time in [start, end].
func Window(s domain.Series, start, end int64) domain.Series {
	out := make(domain.Series, 0, len(s))
	for _, p := range s {
		if p.Time >= start && p.Time <= end {
			out = append(out, p)
		}
	}
	return out
}
