package reporting

import (
	"fmt"
	"strings"
	"time"

	"adam-dashboard/internal/chart"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Portfolio Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Portfolio: %s\n\n", r.PortfolioID))
	if r.Demo {
		sb.WriteString("> No equity snapshots recorded yet. Performance figures use the demo series.\n\n")
	}

	// Book
	sb.WriteString("## Balance\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Equity | %s |\n", chart.FormatCurrency(r.Equity)))
	sb.WriteString(fmt.Sprintf("| Cash | %s |\n", chart.FormatCurrency(r.Cash)))
	sb.WriteString("\n")

	// Performance
	sb.WriteString("## Performance\n\n")
	sb.WriteString("| Range | Points | Start | End | Change | Change% |\n")
	sb.WriteString("|-------|--------|-------|-----|--------|---------|\n")
	for _, p := range r.Performance {
		sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %+.2f%% |\n",
			p.Range, p.Points,
			chart.FormatCurrency(p.Summary.StartValue),
			chart.FormatCurrency(p.Summary.EndValue),
			chart.FormatCurrency(p.Summary.Change),
			p.Summary.ChangePct))
	}
	sb.WriteString("\n")

	// Holdings
	sb.WriteString("## Holdings\n\n")
	if len(r.Holdings) > 0 {
		sb.WriteString("| Symbol | Quantity | Avg Cost | Last | Value | Unrealized | Realized |\n")
		sb.WriteString("|--------|----------|----------|------|-------|------------|----------|\n")
		for _, h := range r.Holdings {
			sb.WriteString(fmt.Sprintf("| %s | %g | %s | %s | %s | %s | %s |\n",
				h.Symbol, h.Quantity,
				chart.FormatCurrency(h.AvgCost),
				chart.FormatCurrency(h.LastPrice),
				chart.FormatCurrency(h.MarketValue),
				chart.FormatCurrency(h.UnrealizedPnL),
				chart.FormatCurrency(h.RealizedPnL)))
		}
	} else {
		sb.WriteString("No open positions.\n")
	}
	sb.WriteString("\n")

	// Agents
	sb.WriteString("## Agents\n\n")
	if len(r.Agents) > 0 {
		sb.WriteString("| Agent | Strategy | Chain | Status | Trades | Notional | Fees |\n")
		sb.WriteString("|-------|----------|-------|--------|--------|----------|------|\n")
		for _, a := range r.Agents {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %d | %s | %s |\n",
				a.Name, a.Strategy, a.Chain, a.Status, a.TradeCount,
				chart.FormatCurrency(a.NotionalUSD),
				chart.FormatCurrency(a.FeesUSD)))
		}
	} else {
		sb.WriteString("No agents created.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
