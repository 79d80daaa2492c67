// Package reporting exports portfolio data as CSV and Markdown.
package reporting

import (
	"time"

	"adam-dashboard/internal/domain"
)

// Report is the portfolio summary document.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	PortfolioID string
	Demo        bool // equity series came from the demo waveform

	// Per-range performance, in domain.Ranges order
	Performance []PerformanceRow

	// Current book
	Cash     float64
	Equity   float64
	Holdings []domain.Holding

	// Agents
	Agents []AgentRow
}

// PerformanceRow is one range of the equity series.
type PerformanceRow struct {
	Range   domain.Range
	Points  int
	Summary domain.Summary
}

// AgentRow summarizes one agent and its trading activity.
type AgentRow struct {
	AgentID     string
	Name        string
	Strategy    domain.Strategy
	Chain       domain.Chain
	Status      domain.AgentStatus
	TradeCount  int
	NotionalUSD float64
	FeesUSD     float64
}
