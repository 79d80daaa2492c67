package chart

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"adam-dashboard/internal/domain"
)

// Time layouts per granularity.
const (
	layoutHourMinute = "15:04"
	layoutMonthDay   = "01/02"
	layoutMonthYear  = "01/06"
	layoutMonthFull  = "01/2006"
)

// Formatter renders axis ticks and tooltip labels in a fixed location.
type Formatter struct {
	Loc *time.Location
}

func (f Formatter) at(sec int64) time.Time {
	loc := f.Loc
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(sec, 0).In(loc)
}

// Tick formats an axis label for r.
func (f Formatter) Tick(r domain.Range, sec int64) string {
	switch r.Granularity() {
	case domain.GranularityMonthDay:
		return f.at(sec).Format(layoutMonthDay)
	case domain.GranularityMonthYear:
		return f.at(sec).Format(layoutMonthYear)
	default:
		return f.at(sec).Format(layoutHourMinute)
	}
}

// Tooltip formats the hovered point's time. It differs from Tick only for
// ALL, which shows the full year.
func (f Formatter) Tooltip(r domain.Range, sec int64) string {
	if r.Granularity() == domain.GranularityMonthYear {
		return f.at(sec).Format(layoutMonthFull)
	}
	return f.Tick(r, sec)
}

// FormatCurrency renders v as "$" plus a grouped two-decimal number.
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$0.00"
	}
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// TickIndices returns up to count indices sampled evenly across n points.
// Duplicates from small n are collapsed.
func TickIndices(n, count int) []int {
	if n <= 0 || count <= 0 {
		return nil
	}
	if n == 1 || count == 1 {
		return []int{0}
	}
	out := make([]int, 0, count)
	last := -1
	for i := 0; i < count; i++ {
		idx := int(math.Round(float64(i) * float64(n-1) / float64(count-1)))
		if idx != last {
			out = append(out, idx)
			last = idx
		}
	}
	return out
}
