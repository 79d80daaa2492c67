package domain

// Trade is an executed fill attributed to an agent.
// Corresponds to trades table in Postgres.
type Trade struct {
	TradeID      string    `json:"id"` // deterministic hash
	AgentID      string    `json:"agentId"`
	Symbol       string    `json:"symbol"`
	Side         TradeSide `json:"side"`
	Quantity     float64   `json:"quantity"`
	Price        float64   `json:"price"` // USD per unit
	FeeUSD       float64   `json:"fee"`
	ExecutedAtMs int64     `json:"executedAt"`
}

// Notional returns quantity * price.
func (t *Trade) Notional() float64 {
	return t.Quantity * t.Price
}

// TradeSide is the direction of a trade.
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// IsValid checks if the side is known.
func (s TradeSide) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// Holding is an open position aggregated from trades.
type Holding struct {
	Symbol        string  `json:"symbol"`
	Quantity      float64 `json:"quantity"`
	AvgCost       float64 `json:"avgCost"`
	LastPrice     float64 `json:"lastPrice"`
	MarketValue   float64 `json:"marketValue"`
	UnrealizedPnL float64 `json:"unrealizedPnl"`
	RealizedPnL   float64 `json:"realizedPnl"`
}
