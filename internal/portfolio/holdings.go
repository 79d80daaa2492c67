package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"

	"adam-dashboard/internal/domain"
)

// Book is a portfolio's cash and open positions at one instant.
type Book struct {
	AsOfMs   int64            `json:"asOf"`
	Cash     float64          `json:"cash"`
	Equity   float64          `json:"equity"`
	Holdings []domain.Holding `json:"holdings"`
}

type position struct {
	qty      decimal.Decimal
	cost     decimal.Decimal // total cost basis of qty
	realized decimal.Decimal
	last     decimal.Decimal // last fill price
}

func (p *position) avgCost() decimal.Decimal {
	if p.qty.IsZero() {
		return decimal.Zero
	}
	return p.cost.Div(p.qty)
}

// aggregate folds trades into per-symbol positions with an average-cost
// basis and returns remaining cash. Fees are capitalized on buys and
// charged against realized PnL on sells. Sells beyond the open quantity
// are capped at it.
func aggregate(initialCash float64, trades []*domain.Trade) (map[string]*position, decimal.Decimal) {
	sorted := make([]*domain.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExecutedAtMs < sorted[j].ExecutedAtMs
	})

	cash := decimal.NewFromFloat(initialCash)
	positions := make(map[string]*position)
	for _, t := range sorted {
		pos, ok := positions[t.Symbol]
		if !ok {
			pos = &position{}
			positions[t.Symbol] = pos
		}
		qty := decimal.NewFromFloat(t.Quantity)
		price := decimal.NewFromFloat(t.Price)
		fee := decimal.NewFromFloat(t.FeeUSD)
		pos.last = price

		switch t.Side {
		case domain.SideBuy:
			notional := qty.Mul(price)
			pos.qty = pos.qty.Add(qty)
			pos.cost = pos.cost.Add(notional).Add(fee)
			cash = cash.Sub(notional).Sub(fee)
		case domain.SideSell:
			if qty.GreaterThan(pos.qty) {
				qty = pos.qty
			}
			avg := pos.avgCost()
			proceeds := qty.Mul(price)
			pos.realized = pos.realized.Add(price.Sub(avg).Mul(qty)).Sub(fee)
			pos.cost = pos.cost.Sub(avg.Mul(qty))
			pos.qty = pos.qty.Sub(qty)
			cash = cash.Add(proceeds).Sub(fee)
		}
	}
	return positions, cash
}

// markBook values positions with marks (symbol -> price). Symbols without
// a mark use their last fill price. Closed positions are listed only when
// they carry realized PnL.
func markBook(asOfMs int64, positions map[string]*position, cash decimal.Decimal, marks map[string]float64) *Book {
	symbols := make([]string, 0, len(positions))
	for sym := range positions {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	equity := cash
	holdings := make([]domain.Holding, 0, len(symbols))
	for _, sym := range symbols {
		pos := positions[sym]
		if pos.qty.IsZero() && pos.realized.IsZero() {
			continue
		}
		mark := pos.last
		if m, ok := marks[sym]; ok {
			mark = decimal.NewFromFloat(m)
		}
		value := pos.qty.Mul(mark)
		equity = equity.Add(value)

		holdings = append(holdings, domain.Holding{
			Symbol:        sym,
			Quantity:      pos.qty.InexactFloat64(),
			AvgCost:       pos.avgCost().Round(8).InexactFloat64(),
			LastPrice:     mark.InexactFloat64(),
			MarketValue:   value.Round(2).InexactFloat64(),
			UnrealizedPnL: value.Sub(pos.cost).Round(2).InexactFloat64(),
			RealizedPnL:   pos.realized.Round(2).InexactFloat64(),
		})
	}

	return &Book{
		AsOfMs:   asOfMs,
		Cash:     cash.Round(2).InexactFloat64(),
		Equity:   equity.Round(2).InexactFloat64(),
		Holdings: holdings,
	}
}
