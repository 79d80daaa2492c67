// Package lookup answers as-of queries over time-ordered points.
package lookup

import (
	"errors"
	"sort"

	"adam-dashboard/internal/domain"
)

// ErrNoPriceData is returned when there are no prices to search.
var ErrNoPriceData = errors.New("no price data available")

// PriceAt returns the last price at or before target (ms).
// Prices must be ordered by timestamp ascending.
// If every price is after target, the first price is returned.
func PriceAt(target int64, prices []*domain.PricePoint) (float64, error) {
	if len(prices) == 0 {
		return 0, ErrNoPriceData
	}
	i := sort.Search(len(prices), func(i int) bool {
		return prices[i].TimestampMs > target
	})
	if i == 0 {
		return prices[0].Price, nil
	}
	return prices[i-1].Price, nil
}
