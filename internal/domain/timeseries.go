package domain

// EquityPoint is a portfolio valuation snapshot.
// Corresponds to equity_timeseries table in ClickHouse.
type EquityPoint struct {
	PortfolioID string  // portfolio identifier
	TimestampMs int64   // Unix timestamp in milliseconds
	Value       float64 // total equity in USD
	Cash        float64 // uninvested USD
}

// PricePoint is a market price observation for a symbol.
// Corresponds to price_timeseries table in ClickHouse.
type PricePoint struct {
	Symbol      string  // asset symbol, e.g. SOL
	TimestampMs int64   // Unix timestamp in milliseconds
	Price       float64 // USD price
	Source      string  // "feed" | "market_chart"
}

// EquitySeries converts snapshots to a chart Series (seconds).
func EquitySeries(points []*EquityPoint) Series {
	out := make(Series, 0, len(points))
	for _, p := range points {
		out = append(out, SeriesPoint{Time: p.TimestampMs / 1000, Value: p.Value})
	}
	return out
}
