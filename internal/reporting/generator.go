package reporting

import (
	"context"
	"fmt"
	"time"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/portfolio"
	"adam-dashboard/internal/storage"
)

// PortfolioSource provides the series and book a report is built from.
type PortfolioSource interface {
	SeriesFor(ctx context.Context, portfolioID string, r domain.Range) (*portfolio.SeriesResult, error)
	Holdings(ctx context.Context) (*portfolio.Book, error)
}

// Generator produces reports from stored data.
type Generator struct {
	portfolio  PortfolioSource
	agentStore storage.AgentStore
	tradeStore storage.TradeStore
	now        func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(src PortfolioSource, agents storage.AgentStore, trades storage.TradeStore) *Generator {
	return &Generator{
		portfolio:  src,
		agentStore: agents,
		tradeStore: trades,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds the report for portfolioID.
func (g *Generator) Generate(ctx context.Context, portfolioID string) (*Report, error) {
	r := &Report{
		GeneratedAt: g.now(),
		PortfolioID: portfolioID,
	}

	for _, rng := range domain.Ranges {
		res, err := g.portfolio.SeriesFor(ctx, portfolioID, rng)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", rng, err)
		}
		r.Demo = r.Demo || res.Demo
		r.Performance = append(r.Performance, PerformanceRow{
			Range:   rng,
			Points:  len(res.Points),
			Summary: res.Summary,
		})
	}

	book, err := g.portfolio.Holdings(ctx)
	if err != nil {
		return nil, fmt.Errorf("holdings: %w", err)
	}
	r.Cash = book.Cash
	r.Equity = book.Equity
	r.Holdings = book.Holdings

	agents, err := g.agentStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("agents: %w", err)
	}
	for _, a := range agents {
		trades, err := g.tradeStore.GetByAgentID(ctx, a.AgentID)
		if err != nil {
			return nil, fmt.Errorf("trades for %s: %w", a.AgentID, err)
		}
		row := AgentRow{
			AgentID:    a.AgentID,
			Name:       a.Name,
			Strategy:   a.Strategy,
			Chain:      a.Chain,
			Status:     a.Status,
			TradeCount: len(trades),
		}
		for _, t := range trades {
			row.NotionalUSD += t.Notional()
			row.FeesUSD += t.FeeUSD
		}
		r.Agents = append(r.Agents, row)
	}

	return r, nil
}
