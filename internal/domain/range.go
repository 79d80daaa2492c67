package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownRange is returned when a range selector is not recognized.
var ErrUnknownRange = errors.New("unknown range")

// Range selects the time window of a chart.
type Range string

const (
	Range1H  Range = "1H"
	Range24H Range = "24H"
	Range7D  Range = "7D"
	Range30D Range = "30D"
	RangeAll Range = "ALL"
)

// Ranges lists every selector in display order.
var Ranges = []Range{Range1H, Range24H, Range7D, Range30D, RangeAll}

// Granularity is the coarseness of axis labels for a Range.
type Granularity int

const (
	GranularityHourMinute Granularity = iota
	GranularityMonthDay
	GranularityMonthYear
)

// ParseRange accepts a selector case-insensitively. Empty input selects 24H.
func ParseRange(s string) (Range, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return Range24H, nil
	}
	r := Range(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRange, s)
	}
	return r, nil
}

// String returns the string representation of Range.
func (r Range) String() string {
	return string(r)
}

// IsValid checks if the range is a known selector.
func (r Range) IsValid() bool {
	switch r {
	case Range1H, Range24H, Range7D, Range30D, RangeAll:
		return true
	}
	return false
}

// Granularity returns the axis label granularity.
func (r Range) Granularity() Granularity {
	switch r {
	case Range7D, Range30D:
		return GranularityMonthDay
	case RangeAll:
		return GranularityMonthYear
	default:
		return GranularityHourMinute
	}
}

// Window returns the lookback duration. ALL returns 0 (unbounded).
func (r Range) Window() time.Duration {
	switch r {
	case Range1H:
		return time.Hour
	case Range24H:
		return 24 * time.Hour
	case Range7D:
		return 7 * 24 * time.Hour
	case Range30D:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// PointCount returns how many points a chart of this range expects.
func (r Range) PointCount() int {
	switch r {
	case Range1H:
		return 61
	case Range24H:
		return 96
	case Range7D:
		return 84
	case Range30D:
		return 120
	default:
		return 150
	}
}

// Step returns the nominal spacing between points.
func (r Range) Step() time.Duration {
	switch r {
	case Range1H:
		return time.Minute
	case Range24H:
		return 15 * time.Minute
	case Range7D:
		return 2 * time.Hour
	case Range30D:
		return 6 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// UpstreamDays returns the market-data "days" query value.
func (r Range) UpstreamDays() string {
	switch r {
	case Range1H, Range24H:
		return "1"
	case Range7D:
		return "7"
	case Range30D:
		return "30"
	default:
		return "max"
	}
}
